package timeslot

import (
	"fmt"
	"time"
)

// TimeOfDay is a minute-resolution wall-clock time within a single day.
type TimeOfDay int

// Parse reads a time-of-day string in "HH:MM" or "HH:MM:SS" form. A seconds
// component is dropped so that all comparisons happen at minute precision.
func Parse(raw string) (TimeOfDay, error) {
	if len(raw) < 5 || raw[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q", raw)
	}
	if len(raw) > 5 && raw[5] != ':' {
		return 0, fmt.Errorf("invalid time of day %q", raw)
	}

	parsed, err := time.Parse("15:04", raw[:5])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(raw string) TimeOfDay {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTime truncates a time.Time to its minute-of-day.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted forward by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// Normalize rewrites a time string to "HH:MM", returning an error for
// malformed input.
func Normalize(raw string) (string, error) {
	t, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap: a window
// ending at 11:00 does not conflict with one starting at 11:00. Every
// overlap check in the system (slot vs booking, slot vs break, booking vs
// booking) goes through this predicate.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// OverlapsStrings is Overlaps over raw time strings, normalizing each side
// to minute precision first.
func OverlapsStrings(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := Parse(aStart)
	if err != nil {
		return false, err
	}
	ae, err := Parse(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := Parse(bStart)
	if err != nil {
		return false, err
	}
	be, err := Parse(bEnd)
	if err != nil {
		return false, err
	}
	return Overlaps(as, ae, bs, be), nil
}

// DayOfWeek converts a date to the weekday numbering used across the whole
// system: 0=Sunday through 6=Saturday. Working-hour rows and the slot
// generator must agree on this conversion, so no other weekday mapping may
// exist in the codebase.
func DayOfWeek(date time.Time) int {
	return int(date.Weekday())
}

// SameDate reports whether two instants fall on the same calendar day in
// the location of the first.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
