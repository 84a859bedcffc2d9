package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/models"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
)

type mockServiceReader struct {
	services map[string]models.Service
}

func (m *mockServiceReader) FindByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := m.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &svc, nil
}

type mockHourReader struct {
	hours map[int]models.WorkingHour
}

func (m *mockHourReader) FindActiveByDay(ctx context.Context, dayOfWeek int) (*models.WorkingHour, error) {
	wh, ok := m.hours[dayOfWeek]
	if !ok || !wh.IsActive {
		return nil, sql.ErrNoRows
	}
	return &wh, nil
}

func (m *mockHourReader) ActiveDays(ctx context.Context) ([]int, error) {
	var days []int
	for d := 0; d <= 6; d++ {
		if wh, ok := m.hours[d]; ok && wh.IsActive {
			days = append(days, d)
		}
	}
	return days, nil
}

type mockBreakReader struct {
	breaks []models.BreakPeriod
}

func (m *mockBreakReader) ListActiveForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error) {
	var active []models.BreakPeriod
	for _, bp := range m.breaks {
		if bp.WorkingHourID == workingHourID && bp.IsActive {
			active = append(active, bp)
		}
	}
	return active, nil
}

type mockBookingReader struct {
	bookings []models.Booking
}

func (m *mockBookingReader) ListByDate(ctx context.Context, date time.Time, excludeCancelled bool) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if !b.BookingDate.Equal(date) {
			continue
		}
		if excludeCancelled && b.Status == models.BookingCancelled {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// monday2025 is 2025-06-02, a Monday (day_of_week 1).
var monday2025 = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func newSlotFixture() (*SlotService, *mockBookingReader, *mockBreakReader) {
	services := &mockServiceReader{services: map[string]models.Service{
		"svc-60": {ID: "svc-60", Name: "Haircut", DurationMinutes: 60, Price: 35},
		"svc-45": {ID: "svc-45", Name: "Consult", DurationMinutes: 45, Price: 50},
	}}
	hours := &mockHourReader{hours: map[int]models.WorkingHour{
		1: {ID: "wh-mon", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "17:00:00", IsActive: true},
	}}
	breaks := &mockBreakReader{}
	bookings := &mockBookingReader{}

	svc := NewSlotService(services, hours, breaks, bookings, nil, nil)
	// A clock well before the test date keeps the past filter inert.
	svc.WithClock(func() time.Time {
		return time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	})
	return svc, bookings, breaks
}

func TestAvailableSlotsFullOpenDay(t *testing.T) {
	svc, _, _ := newSlotFixture()

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.Equal(t, models.Slot{StartTime: "09:00", EndTime: "10:00"}, slots[0])
	assert.Equal(t, models.Slot{StartTime: "16:00", EndTime: "17:00"}, slots[7])
}

func TestAvailableSlotsSkipsBreakWindow(t *testing.T) {
	svc, _, breaks := newSlotFixture()
	breaks.breaks = []models.BreakPeriod{
		{ID: "bp-1", WorkingHourID: "wh-mon", StartTime: "12:00:00", EndTime: "13:00:00", IsActive: true},
	}

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	require.Len(t, slots, 7)

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	assert.NotContains(t, starts, "12:00")
	assert.Contains(t, starts, "11:00")
	assert.Contains(t, starts, "13:00")
}

func TestAvailableSlotsInactiveBreakIgnored(t *testing.T) {
	svc, _, breaks := newSlotFixture()
	breaks.breaks = []models.BreakPeriod{
		{ID: "bp-1", WorkingHourID: "wh-mon", StartTime: "12:00:00", EndTime: "13:00:00", IsActive: false},
	}

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestAvailableSlotsExcludesBookedWindows(t *testing.T) {
	svc, bookings, _ := newSlotFixture()
	bookings.bookings = []models.Booking{
		{ID: "b1", BookingDate: monday2025, StartTime: "10:00:00", EndTime: "11:00:00", Status: models.BookingConfirmed},
		{ID: "b2", BookingDate: monday2025, StartTime: "14:00:00", EndTime: "15:00:00", Status: models.BookingPending},
	}

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	require.Len(t, slots, 6)
	for _, s := range slots {
		assert.NotEqual(t, "10:00", s.StartTime)
		assert.NotEqual(t, "14:00", s.StartTime)
	}
}

func TestAvailableSlotsCancelledBookingFreesWindow(t *testing.T) {
	svc, bookings, _ := newSlotFixture()
	bookings.bookings = []models.Booking{
		{ID: "b1", BookingDate: monday2025, StartTime: "10:00:00", EndTime: "11:00:00", Status: models.BookingCancelled},
	}

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestAvailableSlotsEmptyOnUnconfiguredDay(t *testing.T) {
	svc, _, _ := newSlotFixture()

	// 2025-06-01 is a Sunday, which has no working hours in the fixture.
	sunday := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	slots, err := svc.AvailableSlots(context.Background(), sunday, "svc-60")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestAvailableSlotsUnknownService(t *testing.T) {
	svc, _, _ := newSlotFixture()

	_, err := svc.AvailableSlots(context.Background(), monday2025, "nope")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAvailableSlotsDropsPastSlotsToday(t *testing.T) {
	svc, _, _ := newSlotFixture()
	// Midday on the requested date: slots starting at or before 12:00 are
	// gone, including the one starting exactly now.
	svc.WithClock(func() time.Time {
		return time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	})

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "13:00", slots[0].StartTime)
}

func TestAvailableSlotsFutureDateIgnoresClock(t *testing.T) {
	svc, _, _ := newSlotFixture()
	svc.WithClock(func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	})

	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestAvailableSlotsNeverOvershootsClosingTime(t *testing.T) {
	svc, _, _ := newSlotFixture()

	// 45-minute steps across 09:00-17:00: the last full slot is
	// 15:45-16:30; a 16:30-17:15 candidate would overshoot.
	slots, err := svc.AvailableSlots(context.Background(), monday2025, "svc-45")
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.Equal(t, "15:45", last.StartTime)
	assert.Equal(t, "16:30", last.EndTime)
}

func TestAvailableSlotsIsIdempotent(t *testing.T) {
	svc, bookings, _ := newSlotFixture()
	bookings.bookings = []models.Booking{
		{ID: "b1", BookingDate: monday2025, StartTime: "10:00:00", EndTime: "11:00:00", Status: models.BookingConfirmed},
	}

	first, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	second, err := svc.AvailableSlots(context.Background(), monday2025, "svc-60")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBookableDays(t *testing.T) {
	svc, _, _ := newSlotFixture()

	days, err := svc.BookableDays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, days)
}
