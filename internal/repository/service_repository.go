package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/models"
)

// ServiceRepository persists bookable services.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository constructs a service repository.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns all services ordered by name.
func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	const query = `SELECT id, name, duration_minutes, price, created_at, updated_at
FROM services ORDER BY name ASC`
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// FindByID fetches a single service.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	const query = `SELECT id, name, duration_minutes, price, created_at, updated_at
FROM services WHERE id = $1`
	var svc models.Service
	if err := r.db.GetContext(ctx, &svc, query, id); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create inserts a service.
func (r *ServiceRepository) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	const query = `INSERT INTO services (id, name, duration_minutes, price, created_at, updated_at)
VALUES (:id, :name, :duration_minutes, :price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, svc); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// Update modifies a service.
func (r *ServiceRepository) Update(ctx context.Context, svc *models.Service) error {
	svc.UpdatedAt = time.Now().UTC()
	const query = `UPDATE services SET name = :name, duration_minutes = :duration_minutes,
price = :price, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, svc); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete removes a service.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
