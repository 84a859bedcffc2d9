package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/appointly/appointly-api/internal/models"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
)

type serviceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id string) error
}

// CreateServiceRequest defines a new bookable offering. The duration is
// bounded so slot generation stays sane (5 minutes to 8 hours).
type CreateServiceRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=120"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=5,max=480"`
	Price           *float64 `json:"price" validate:"required,gte=0"`
}

// UpdateServiceRequest mutates an offering; zero-valued fields are left
// untouched.
type UpdateServiceRequest struct {
	Name            string   `json:"name" validate:"omitempty,min=2,max=120"`
	DurationMinutes int      `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
}

// CatalogService manages the offerings a client can book.
type CatalogService struct {
	repo      serviceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService creates a catalog service instance.
func NewCatalogService(repo serviceRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// List returns every offering ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}
	return services, nil
}

// Get returns one offering by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	return svc, nil
}

// Create adds an offering to the catalog.
func (s *CatalogService) Create(ctx context.Context, req CreateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}

	svc := &models.Service{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           *req.Price,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service")
	}
	s.logger.Info("service created", zap.String("service_id", svc.ID), zap.String("name", svc.Name))
	return svc, nil
}

// Update mutates an offering. Changing the duration only affects slots
// generated after the change; existing bookings keep their windows.
func (s *CatalogService) Update(ctx context.Context, id string, req UpdateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.DurationMinutes != 0 {
		svc.DurationMinutes = req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service")
	}
	return svc, nil
}

// Delete removes an offering. Bookings referencing it are removed by the
// schema's cascade.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete service")
	}
	return nil
}
