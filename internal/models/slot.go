package models

// Slot is a candidate booking window for a given date. Slots are derived on
// every query and never persisted.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
