package models

import "time"

// WorkingHour is the configured open/close window for one weekday.
// day_of_week uses 0=Sunday through 6=Saturday and is unique per row.
type WorkingHour struct {
	ID        string    `db:"id" json:"id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WorkingHourView decorates a working hour with localized day labels for
// presentation.
type WorkingHourView struct {
	WorkingHour
	DayName      string `json:"day_name"`
	DayNameShort string `json:"day_name_short"`
}
