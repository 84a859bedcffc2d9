package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsMinuteAndSecondPrecision(t *testing.T) {
	withSeconds, err := Parse("09:30:00")
	require.NoError(t, err)
	minuteOnly, err := Parse("09:30")
	require.NoError(t, err)
	assert.Equal(t, minuteOnly, withSeconds)
	assert.Equal(t, "09:30", withSeconds.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "9:30", "0930", "25:00", "09:61", "09-30", "09:3"} {
		_, err := Parse(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestNormalizeDropsSeconds(t *testing.T) {
	got, err := Normalize("17:00:00")
	require.NoError(t, err)
	assert.Equal(t, "17:00", got)
}

func TestOverlapsHalfOpenBoundary(t *testing.T) {
	// A booking ending at 11:00 and one starting at 11:00 do not conflict.
	assert.False(t, Overlaps(MustParse("10:00"), MustParse("11:00"), MustParse("11:00"), MustParse("12:00")))
	assert.False(t, Overlaps(MustParse("11:00"), MustParse("12:00"), MustParse("10:00"), MustParse("11:00")))
}

func TestOverlapsShapes(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd           string
		bStart, bEnd           string
		want                   bool
	}{
		{"inside", "10:30", "10:45", "10:00", "11:00", true},
		{"covering", "10:00", "11:00", "10:15", "10:45", true},
		{"partial left", "09:30", "10:30", "10:00", "11:00", true},
		{"partial right", "10:30", "11:30", "10:00", "11:00", true},
		{"exact duplicate", "10:00", "11:00", "10:00", "11:00", true},
		{"disjoint before", "08:00", "09:00", "10:00", "11:00", false},
		{"disjoint after", "12:00", "13:00", "10:00", "11:00", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(MustParse(tc.aStart), MustParse(tc.aEnd), MustParse(tc.bStart), MustParse(tc.bEnd))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOverlapsStringsNormalizesSeconds(t *testing.T) {
	got, err := OverlapsStrings("10:00:00", "11:00:00", "10:30", "11:30")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestDayOfWeekNumbering(t *testing.T) {
	// Sunday must map to 0 and Saturday to 6; working-hour rows use the
	// same numbering, so a mismatch here silently empties every slot query.
	sunday := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		assert.Equal(t, offset, DayOfWeek(sunday.AddDate(0, 0, offset)))
	}
}

func TestFromTimeTruncatesToMinute(t *testing.T) {
	instant := time.Date(2025, time.March, 3, 14, 45, 59, 0, time.UTC)
	assert.Equal(t, MustParse("14:45"), FromTime(instant))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, time.March, 3, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 3, 0, 1, 0, 0, time.UTC)
	c := time.Date(2025, time.March, 4, 0, 1, 0, 0, time.UTC)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, c))
}
