package models

import "time"

// BreakPeriod is a sub-window of a working hour excluded from slot
// generation. It is owned by its working hour and removed with it.
type BreakPeriod struct {
	ID            string    `db:"id" json:"id"`
	WorkingHourID string    `db:"working_hour_id" json:"working_hour_id"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	Name          *string   `db:"name" json:"name,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
