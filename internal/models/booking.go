package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// Booking is a committed appointment. For a fixed booking_date, rows whose
// status is not cancelled are pairwise non-overlapping on
// [start_time, end_time); the admission transaction enforces this.
type Booking struct {
	ID          string        `db:"id" json:"id"`
	ServiceID   string        `db:"service_id" json:"service_id"`
	ClientEmail string        `db:"client_email" json:"client_email"`
	BookingDate time.Time     `db:"booking_date" json:"booking_date"`
	StartTime   string        `db:"start_time" json:"start_time"`
	EndTime     string        `db:"end_time" json:"end_time"`
	Status      BookingStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`

	// Service is eagerly joined for presentation; nil when not loaded.
	Service *Service `db:"-" json:"service,omitempty"`
}

// BookingFilter narrows down admin booking listings.
type BookingFilter struct {
	Date     *time.Time
	Status   BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
