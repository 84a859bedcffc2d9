package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/appointly/appointly-api/internal/models"
	"github.com/appointly/appointly-api/internal/repository"
	"github.com/appointly/appointly-api/internal/timeslot"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
	"github.com/appointly/appointly-api/pkg/export"
)

type bookingLedger interface {
	CreateIfFree(ctx context.Context, booking *models.Booking) error
	HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error)
	ListByDate(ctx context.Context, date time.Time, excludeCancelled bool) ([]models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	Delete(ctx context.Context, id string) error
}

type bookingServiceReader interface {
	FindByID(ctx context.Context, id string) (*models.Service, error)
}

// CreateBookingRequest is the client payload for booking a slot. Dates use
// YYYY-MM-DD and times HH:MM (a seconds component is tolerated). The end
// time is deliberately not checked against the service duration.
type CreateBookingRequest struct {
	ServiceID   string `json:"service_id" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`
	BookingDate string `json:"booking_date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// UpdateBookingStatusRequest mutates a booking's lifecycle state.
type UpdateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required"`
}

// BookingService is the admission boundary: it validates client requests
// and commits them through the ledger's serialized transaction, so that of
// two racing overlapping requests at most one ever succeeds.
type BookingService struct {
	ledger        bookingLedger
	services      bookingServiceReader
	validator     *validator.Validate
	logger        *zap.Logger
	metrics       *MetricsService
	defaultStatus models.BookingStatus
	now           func() time.Time
}

// NewBookingService creates a booking service instance. defaultStatus is
// the status assigned to admitted bookings ("pending" unless operator
// policy says "confirmed").
func NewBookingService(ledger bookingLedger, services bookingServiceReader, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, defaultStatus string) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	status := models.BookingStatus(defaultStatus)
	if !status.Valid() || status == models.BookingCancelled {
		status = models.BookingPending
	}
	return &BookingService{
		ledger:        ledger,
		services:      services,
		validator:     validate,
		logger:        logger,
		metrics:       metrics,
		defaultStatus: status,
		now:           time.Now,
	}
}

// WithClock overrides the wall clock for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Create admits a booking or rejects it with a Conflict. The conflict
// re-check happens inside the ledger transaction; an earlier slot query is
// never trusted as authorization for the write.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking_date must be YYYY-MM-DD")
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking_date must not be in the past")
	}

	startTime, err := timeslot.Normalize(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	endTime, err := timeslot.Normalize(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if startTime >= endTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	if _, err := s.services.FindByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	booking := &models.Booking{
		ServiceID:   req.ServiceID,
		ClientEmail: req.ClientEmail,
		BookingDate: date,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      s.defaultStatus,
	}

	if err := s.ledger.CreateIfFree(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			if s.metrics != nil {
				s.metrics.CountAdmission(false)
			}
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	if s.metrics != nil {
		s.metrics.CountAdmission(true)
	}
	s.logger.Info("booking admitted",
		zap.String("booking_id", booking.ID),
		zap.String("service_id", booking.ServiceID),
		zap.String("date", req.BookingDate),
		zap.String("window", startTime+"-"+endTime),
	)

	created, err := s.ledger.FindByID(ctx, booking.ID)
	if err != nil {
		// The row is committed; fall back to the in-memory copy.
		return booking, nil
	}
	return created, nil
}

// HasConflict answers whether [startTime, endTime) on date collides with a
// non-cancelled booking.
func (s *BookingService) HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	start, err := timeslot.Normalize(startTime)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	end, err := timeslot.Normalize(endTime)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	conflict, err := s.ledger.HasConflict(ctx, date, start, end)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check conflict")
	}
	return conflict, nil
}

// List returns bookings matching the filter ordered by date then start.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or cancelled")
	}

	bookings, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	return bookings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListForDate returns a date's bookings chronologically with services
// loaded.
func (s *BookingService) ListForDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	bookings, err := s.ledger.ListByDate(ctx, date, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// UpdateStatus overwrites a booking's status. No conflict re-check happens
// here: reinstating a cancelled booking into a now-occupied window is
// accepted (see the admission tests documenting this gap).
func (s *BookingService) UpdateStatus(ctx context.Context, id string, req UpdateBookingStatusRequest) (*models.Booking, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or cancelled")
	}

	if err := s.ledger.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}

	booking, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload booking")
	}
	return booking, nil
}

// Delete removes a booking entirely.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete booking")
	}
	return nil
}

// Export renders the filtered bookings as CSV or PDF for admin download.
func (s *BookingService) Export(ctx context.Context, filter models.BookingFilter, format string) ([]byte, string, error) {
	filter.Page = 1
	filter.PageSize = 500
	bookings, _, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings for export")
	}

	table := export.Table{
		Title:   "Bookings",
		Columns: []string{"Date", "Start", "End", "Service", "Client", "Status"},
	}
	for _, b := range bookings {
		serviceName := b.ServiceID
		if b.Service != nil {
			serviceName = b.Service.Name
		}
		table.Rows = append(table.Rows, []string{
			b.BookingDate.Format("2006-01-02"),
			b.StartTime,
			b.EndTime,
			serviceName,
			b.ClientEmail,
			string(b.Status),
		})
	}

	stamp := s.now().Format("20060102")
	switch format {
	case "csv":
		data, err := export.CSV(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, fmt.Sprintf("bookings-%s.csv", stamp), nil
	case "pdf":
		data, err := export.PDF(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, fmt.Sprintf("bookings-%s.pdf", stamp), nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
