package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/models"
)

// BreakPeriodRepository persists break periods nested under working hours.
type BreakPeriodRepository struct {
	db *sqlx.DB
}

// NewBreakPeriodRepository constructs a break period repository.
func NewBreakPeriodRepository(db *sqlx.DB) *BreakPeriodRepository {
	return &BreakPeriodRepository{db: db}
}

const breakPeriodColumns = "id, working_hour_id, start_time, end_time, name, is_active, created_at, updated_at"

// ListForWorkingHour returns every break of a working hour ordered by start.
func (r *BreakPeriodRepository) ListForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error) {
	query := fmt.Sprintf("SELECT %s FROM break_periods WHERE working_hour_id = $1 ORDER BY start_time ASC", breakPeriodColumns)
	var breaks []models.BreakPeriod
	if err := r.db.SelectContext(ctx, &breaks, query, workingHourID); err != nil {
		return nil, fmt.Errorf("list break periods: %w", err)
	}
	return breaks, nil
}

// ListActiveForWorkingHour returns only active breaks, ordered by start.
// This is the read the slot generator filters against.
func (r *BreakPeriodRepository) ListActiveForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error) {
	query := fmt.Sprintf("SELECT %s FROM break_periods WHERE working_hour_id = $1 AND is_active = TRUE ORDER BY start_time ASC", breakPeriodColumns)
	var breaks []models.BreakPeriod
	if err := r.db.SelectContext(ctx, &breaks, query, workingHourID); err != nil {
		return nil, fmt.Errorf("list active break periods: %w", err)
	}
	return breaks, nil
}

// FindByID fetches a break period.
func (r *BreakPeriodRepository) FindByID(ctx context.Context, id string) (*models.BreakPeriod, error) {
	query := fmt.Sprintf("SELECT %s FROM break_periods WHERE id = $1", breakPeriodColumns)
	var bp models.BreakPeriod
	if err := r.db.GetContext(ctx, &bp, query, id); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Create inserts a break period.
func (r *BreakPeriodRepository) Create(ctx context.Context, bp *models.BreakPeriod) error {
	if bp.ID == "" {
		bp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	bp.CreatedAt = now
	bp.UpdatedAt = now
	const query = `INSERT INTO break_periods (id, working_hour_id, start_time, end_time, name, is_active, created_at, updated_at)
VALUES (:id, :working_hour_id, :start_time, :end_time, :name, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bp); err != nil {
		return fmt.Errorf("create break period: %w", err)
	}
	return nil
}

// Update modifies a break period.
func (r *BreakPeriodRepository) Update(ctx context.Context, bp *models.BreakPeriod) error {
	bp.UpdatedAt = time.Now().UTC()
	const query = `UPDATE break_periods SET start_time = :start_time, end_time = :end_time,
name = :name, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, bp); err != nil {
		return fmt.Errorf("update break period: %w", err)
	}
	return nil
}

// Delete removes a break period.
func (r *BreakPeriodRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM break_periods WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete break period: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
