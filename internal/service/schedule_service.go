package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/appointly/appointly-api/internal/i18n"
	"github.com/appointly/appointly-api/internal/models"
	"github.com/appointly/appointly-api/internal/timeslot"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
)

type workingHourRepository interface {
	List(ctx context.Context) ([]models.WorkingHour, error)
	FindByID(ctx context.Context, id string) (*models.WorkingHour, error)
	ExistsForDay(ctx context.Context, dayOfWeek int, excludeID string) (bool, error)
	Create(ctx context.Context, wh *models.WorkingHour) error
	Update(ctx context.Context, wh *models.WorkingHour) error
	Delete(ctx context.Context, id string) error
}

type breakPeriodRepository interface {
	ListForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error)
	FindByID(ctx context.Context, id string) (*models.BreakPeriod, error)
	Create(ctx context.Context, bp *models.BreakPeriod) error
	Update(ctx context.Context, bp *models.BreakPeriod) error
	Delete(ctx context.Context, id string) error
}

// CreateWorkingHourRequest configures one weekday's opening window.
type CreateWorkingHourRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateWorkingHourRequest mutates an existing window; times may arrive
// with or without a seconds component.
type UpdateWorkingHourRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

// CreateBreakPeriodRequest adds a break inside a working hour.
type CreateBreakPeriodRequest struct {
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Name      *string `json:"name"`
}

// UpdateBreakPeriodRequest mutates a break period.
type UpdateBreakPeriodRequest struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Name      *string `json:"name"`
	IsActive  *bool   `json:"is_active"`
}

// ScheduleService administers the weekly calendar configuration: working
// hours (one per weekday) and their break periods.
type ScheduleService struct {
	hours         workingHourRepository
	breaks        breakPeriodRepository
	validator     *validator.Validate
	logger        *zap.Logger
	defaultLocale string
}

// NewScheduleService creates a schedule service instance.
func NewScheduleService(hours workingHourRepository, breaks breakPeriodRepository, validate *validator.Validate, logger *zap.Logger, defaultLocale string) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !i18n.Supported(defaultLocale) {
		defaultLocale = i18n.DefaultLocale
	}
	return &ScheduleService{hours: hours, breaks: breaks, validator: validate, logger: logger, defaultLocale: defaultLocale}
}

// ListWorkingHours returns every configured weekday decorated with
// localized day labels; unknown locales fall back to the default.
func (s *ScheduleService) ListWorkingHours(ctx context.Context, locale string) ([]models.WorkingHourView, string, error) {
	if !i18n.Supported(locale) {
		locale = s.defaultLocale
	}

	hours, err := s.hours.List(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list working hours")
	}

	views := make([]models.WorkingHourView, 0, len(hours))
	for _, wh := range hours {
		views = append(views, models.WorkingHourView{
			WorkingHour:  wh,
			DayName:      i18n.DayName(wh.DayOfWeek, locale),
			DayNameShort: i18n.DayNameShort(wh.DayOfWeek, locale),
		})
	}
	return views, locale, nil
}

// CreateWorkingHour configures a weekday, enforcing the one-row-per-day
// invariant.
func (s *ScheduleService) CreateWorkingHour(ctx context.Context, req CreateWorkingHourRequest) (*models.WorkingHour, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid working hour payload")
	}

	startTime, endTime, err := normalizeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	exists, err := s.hours.ExistsForDay(ctx, *req.DayOfWeek, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check day uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDayConfigured, "")
	}

	wh := &models.WorkingHour{
		DayOfWeek: *req.DayOfWeek,
		StartTime: startTime,
		EndTime:   endTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		wh.IsActive = *req.IsActive
	}

	if err := s.hours.Create(ctx, wh); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create working hour")
	}
	return wh, nil
}

// UpdateWorkingHour mutates a weekday's window.
func (s *ScheduleService) UpdateWorkingHour(ctx context.Context, id string, req UpdateWorkingHourRequest) (*models.WorkingHour, error) {
	wh, err := s.hours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "working hour not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hour")
	}

	startRaw := req.StartTime
	if startRaw == "" {
		startRaw = wh.StartTime
	}
	endRaw := req.EndTime
	if endRaw == "" {
		endRaw = wh.EndTime
	}
	startTime, endTime, err := normalizeWindow(startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	wh.StartTime = startTime
	wh.EndTime = endTime
	if req.IsActive != nil {
		wh.IsActive = *req.IsActive
	}

	if err := s.hours.Update(ctx, wh); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update working hour")
	}
	return wh, nil
}

// DeleteWorkingHour removes a weekday's configuration together with its
// break periods (cascaded at the schema level).
func (s *ScheduleService) DeleteWorkingHour(ctx context.Context, id string) error {
	if _, err := s.hours.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "working hour not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hour")
	}
	if err := s.hours.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete working hour")
	}
	return nil
}

// ListBreakPeriods returns a working hour's breaks ordered by start time.
func (s *ScheduleService) ListBreakPeriods(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error) {
	if _, err := s.hours.FindByID(ctx, workingHourID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "working hour not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hour")
	}
	breaks, err := s.breaks.ListForWorkingHour(ctx, workingHourID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list break periods")
	}
	return breaks, nil
}

// CreateBreakPeriod adds a break, rejecting windows escaping the owning
// working hour with field-level detail.
func (s *ScheduleService) CreateBreakPeriod(ctx context.Context, workingHourID string, req CreateBreakPeriodRequest) (*models.BreakPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid break period payload")
	}

	wh, err := s.hours.FindByID(ctx, workingHourID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "working hour not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hour")
	}

	startTime, endTime, err := normalizeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := checkBreakWithinHours(startTime, endTime, wh); err != nil {
		return nil, err
	}

	bp := &models.BreakPeriod{
		WorkingHourID: wh.ID,
		StartTime:     startTime,
		EndTime:       endTime,
		Name:          req.Name,
		IsActive:      true,
	}
	if err := s.breaks.Create(ctx, bp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create break period")
	}
	return bp, nil
}

// UpdateBreakPeriod mutates a break, re-validating containment whenever a
// bound changes.
func (s *ScheduleService) UpdateBreakPeriod(ctx context.Context, id string, req UpdateBreakPeriodRequest) (*models.BreakPeriod, error) {
	bp, err := s.breaks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "break period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break period")
	}

	startRaw := req.StartTime
	if startRaw == "" {
		startRaw = bp.StartTime
	}
	endRaw := req.EndTime
	if endRaw == "" {
		endRaw = bp.EndTime
	}
	startTime, endTime, err := normalizeWindow(startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	if req.StartTime != "" || req.EndTime != "" {
		wh, err := s.hours.FindByID(ctx, bp.WorkingHourID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owning working hour")
		}
		if err := checkBreakWithinHours(startTime, endTime, wh); err != nil {
			return nil, err
		}
	}

	bp.StartTime = startTime
	bp.EndTime = endTime
	if req.Name != nil {
		bp.Name = req.Name
	}
	if req.IsActive != nil {
		bp.IsActive = *req.IsActive
	}

	if err := s.breaks.Update(ctx, bp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update break period")
	}
	return bp, nil
}

// DeleteBreakPeriod removes a break period.
func (s *ScheduleService) DeleteBreakPeriod(ctx context.Context, id string) error {
	if _, err := s.breaks.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "break period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break period")
	}
	if err := s.breaks.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete break period")
	}
	return nil
}

// normalizeWindow canonicalises a pair of time strings to HH:MM and
// enforces start < end.
func normalizeWindow(startRaw, endRaw string) (string, string, error) {
	startTime, err := timeslot.Normalize(startRaw)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	endTime, err := timeslot.Normalize(endRaw)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if startTime >= endTime {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return startTime, endTime, nil
}

// checkBreakWithinHours verifies [start, end) fits inside the working
// hour's window and names the offending fields on failure.
func checkBreakWithinHours(startTime, endTime string, wh *models.WorkingHour) error {
	whStart, err := timeslot.Parse(wh.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed working hour start")
	}
	whEnd, err := timeslot.Parse(wh.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed working hour end")
	}
	bpStart := timeslot.MustParse(startTime)
	bpEnd := timeslot.MustParse(endTime)

	fields := map[string]string{}
	if bpStart < whStart {
		fields["start_time"] = "break period must start after or at working hour start time"
	}
	if bpEnd > whEnd {
		fields["end_time"] = "break period must end before or at working hour end time"
	}
	if len(fields) > 0 {
		return appErrors.WithFields(appErrors.ErrBreakOutsideHours, fields)
	}
	return nil
}
