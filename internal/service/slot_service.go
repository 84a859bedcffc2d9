package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/appointly/appointly-api/internal/models"
	"github.com/appointly/appointly-api/internal/timeslot"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
)

type slotServiceReader interface {
	FindByID(ctx context.Context, id string) (*models.Service, error)
}

type slotWorkingHourReader interface {
	FindActiveByDay(ctx context.Context, dayOfWeek int) (*models.WorkingHour, error)
	ActiveDays(ctx context.Context) ([]int, error)
}

type slotBreakReader interface {
	ListActiveForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error)
}

type slotBookingReader interface {
	ListByDate(ctx context.Context, date time.Time, excludeCancelled bool) ([]models.Booking, error)
}

// SlotService computes the bookable slots for a (date, service) pair. It
// holds no state of its own; working hours, breaks and bookings are read
// fresh on every call so configuration changes are visible immediately.
type SlotService struct {
	services slotServiceReader
	hours    slotWorkingHourReader
	breaks   slotBreakReader
	bookings slotBookingReader
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewSlotService creates a slot service instance.
func NewSlotService(services slotServiceReader, hours slotWorkingHourReader, breaks slotBreakReader, bookings slotBookingReader, metrics *MetricsService, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		services: services,
		hours:    hours,
		breaks:   breaks,
		bookings: bookings,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, used by tests exercising the
// past-slot filter.
func (s *SlotService) WithClock(now func() time.Time) *SlotService {
	s.now = now
	return s
}

// AvailableSlots returns the ordered candidate windows on date that a
// client may book for the service. A weekday without active working hours
// yields an empty list, not an error.
func (s *SlotService) AvailableSlots(ctx context.Context, date time.Time, serviceID string) ([]models.Slot, error) {
	started := s.now()

	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	wh, err := s.hours.FindActiveByDay(ctx, timeslot.DayOfWeek(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Slot{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hours")
	}

	openAt, err := timeslot.Parse(wh.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed working hour start")
	}
	closeAt, err := timeslot.Parse(wh.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed working hour end")
	}

	breaks, err := s.breaks.ListActiveForWorkingHour(ctx, wh.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break periods")
	}

	bookings, err := s.bookings.ListByDate(ctx, date, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	slots, err := s.generate(date, svc.DurationMinutes, openAt, closeAt, breaks, bookings)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate slots")
	}

	if s.metrics != nil {
		s.metrics.ObserveSlotGeneration(s.now().Sub(started), len(slots))
	}
	return slots, nil
}

// generate walks the working window in duration-sized steps and drops
// candidates that overlap a break, lie in the past (for today) or overlap a
// non-cancelled booking. A final partial slot that would overshoot the
// closing time is never emitted.
func (s *SlotService) generate(date time.Time, durationMinutes int, openAt, closeAt timeslot.TimeOfDay, breaks []models.BreakPeriod, bookings []models.Booking) ([]models.Slot, error) {
	now := s.now()
	today := timeslot.SameDate(now, date)
	nowClock := timeslot.FromTime(now)

	slots := []models.Slot{}
	for cur := openAt; cur.Add(durationMinutes) <= closeAt; cur = cur.Add(durationMinutes) {
		slotStart := cur
		slotEnd := cur.Add(durationMinutes)

		if today && slotStart <= nowClock {
			continue
		}

		blocked, err := s.overlapsBreak(slotStart, slotEnd, breaks)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}

		taken, err := s.overlapsBooking(slotStart, slotEnd, bookings)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		slots = append(slots, models.Slot{
			StartTime: slotStart.String(),
			EndTime:   slotEnd.String(),
		})
	}
	return slots, nil
}

func (s *SlotService) overlapsBreak(start, end timeslot.TimeOfDay, breaks []models.BreakPeriod) (bool, error) {
	for _, bp := range breaks {
		hit, err := timeslot.OverlapsStrings(start.String(), end.String(), bp.StartTime, bp.EndTime)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

func (s *SlotService) overlapsBooking(start, end timeslot.TimeOfDay, bookings []models.Booking) (bool, error) {
	for _, b := range bookings {
		hit, err := timeslot.OverlapsStrings(start.String(), end.String(), b.StartTime, b.EndTime)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

// BookableDays lists the weekday indices that currently accept bookings.
func (s *SlotService) BookableDays(ctx context.Context) ([]int, error) {
	days, err := s.hours.ActiveDays(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookable days")
	}
	if days == nil {
		days = []int{}
	}
	return days, nil
}
