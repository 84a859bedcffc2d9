package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/models"
)

// WorkingHourRepository is the read/write path for weekly working hours.
// Slot queries consult it fresh on every call; nothing here is cached so
// configuration changes are immediately visible.
type WorkingHourRepository struct {
	db *sqlx.DB
}

// NewWorkingHourRepository constructs a working hour repository.
func NewWorkingHourRepository(db *sqlx.DB) *WorkingHourRepository {
	return &WorkingHourRepository{db: db}
}

const workingHourColumns = "id, day_of_week, start_time, end_time, is_active, created_at, updated_at"

// List returns all configured working hours ordered by weekday.
func (r *WorkingHourRepository) List(ctx context.Context) ([]models.WorkingHour, error) {
	query := fmt.Sprintf("SELECT %s FROM working_hours ORDER BY day_of_week ASC", workingHourColumns)
	var hours []models.WorkingHour
	if err := r.db.SelectContext(ctx, &hours, query); err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	return hours, nil
}

// FindByID fetches a working hour.
func (r *WorkingHourRepository) FindByID(ctx context.Context, id string) (*models.WorkingHour, error) {
	query := fmt.Sprintf("SELECT %s FROM working_hours WHERE id = $1", workingHourColumns)
	var wh models.WorkingHour
	if err := r.db.GetContext(ctx, &wh, query, id); err != nil {
		return nil, err
	}
	return &wh, nil
}

// FindActiveByDay returns the active configuration for a weekday
// (0=Sunday..6=Saturday) or sql.ErrNoRows when the day has no service hours.
func (r *WorkingHourRepository) FindActiveByDay(ctx context.Context, dayOfWeek int) (*models.WorkingHour, error) {
	query := fmt.Sprintf("SELECT %s FROM working_hours WHERE day_of_week = $1 AND is_active = TRUE", workingHourColumns)
	var wh models.WorkingHour
	if err := r.db.GetContext(ctx, &wh, query, dayOfWeek); err != nil {
		return nil, err
	}
	return &wh, nil
}

// ActiveDays lists the weekday indices that currently have active hours.
func (r *WorkingHourRepository) ActiveDays(ctx context.Context) ([]int, error) {
	const query = "SELECT day_of_week FROM working_hours WHERE is_active = TRUE ORDER BY day_of_week ASC"
	var days []int
	if err := r.db.SelectContext(ctx, &days, query); err != nil {
		return nil, fmt.Errorf("list active days: %w", err)
	}
	return days, nil
}

// ExistsForDay reports whether a working hour row already covers a weekday.
func (r *WorkingHourRepository) ExistsForDay(ctx context.Context, dayOfWeek int, excludeID string) (bool, error) {
	query := "SELECT 1 FROM working_hours WHERE day_of_week = $1"
	args := []interface{}{dayOfWeek}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"

	var one int
	err := r.db.GetContext(ctx, &one, query, args...)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check working hour day: %w", err)
	}
	return true, nil
}

// Create inserts a working hour.
func (r *WorkingHourRepository) Create(ctx context.Context, wh *models.WorkingHour) error {
	if wh.ID == "" {
		wh.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	wh.CreatedAt = now
	wh.UpdatedAt = now
	const query = `INSERT INTO working_hours (id, day_of_week, start_time, end_time, is_active, created_at, updated_at)
VALUES (:id, :day_of_week, :start_time, :end_time, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, wh); err != nil {
		return fmt.Errorf("create working hour: %w", err)
	}
	return nil
}

// Update modifies a working hour.
func (r *WorkingHourRepository) Update(ctx context.Context, wh *models.WorkingHour) error {
	wh.UpdatedAt = time.Now().UTC()
	const query = `UPDATE working_hours SET start_time = :start_time, end_time = :end_time,
is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, wh); err != nil {
		return fmt.Errorf("update working hour: %w", err)
	}
	return nil
}

// Delete removes a working hour; its break periods cascade at the schema
// level.
func (r *WorkingHourRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM working_hours WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete working hour: %w", err)
	}
	return nil
}
