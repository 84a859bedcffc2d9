package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/models"
)

func TestWorkingHourRepositoryFindActiveByDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHourRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "is_active", "created_at", "updated_at"}).
		AddRow("wh-1", 1, "09:00:00", "17:00:00", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day_of_week, start_time, end_time, is_active, created_at, updated_at FROM working_hours WHERE day_of_week = $1 AND is_active = TRUE")).
		WithArgs(1).
		WillReturnRows(rows)

	wh, err := repo.FindActiveByDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, wh.DayOfWeek)
	assert.Equal(t, "09:00:00", wh.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHourRepositoryFindActiveByDayNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHourRepository(db)

	mock.ExpectQuery("SELECT id, day_of_week").
		WithArgs(6).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByDay(context.Background(), 6)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHourRepositoryExistsForDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHourRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM working_hours WHERE day_of_week = $1 LIMIT 1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsForDay(context.Background(), 2, "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM working_hours WHERE day_of_week = $1 AND id <> $2 LIMIT 1")).
		WithArgs(2, "wh-1").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsForDay(context.Background(), 2, "wh-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHourRepositoryActiveDays(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHourRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT day_of_week FROM working_hours WHERE is_active = TRUE ORDER BY day_of_week ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week"}).AddRow(1).AddRow(2).AddRow(5))

	days, err := repo.ActiveDays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHourRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHourRepository(db)

	mock.ExpectExec("INSERT INTO working_hours").
		WithArgs(sqlmock.AnyArg(), 3, "09:00", "17:00", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	wh := &models.WorkingHour{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), wh))
	assert.NotEmpty(t, wh.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakPeriodRepositoryListActiveForWorkingHour(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBreakPeriodRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "working_hour_id", "start_time", "end_time", "name", "is_active", "created_at", "updated_at"}).
		AddRow("bp-1", "wh-1", "12:00:00", "13:00:00", "Lunch", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, working_hour_id, start_time, end_time, name, is_active, created_at, updated_at FROM break_periods WHERE working_hour_id = $1 AND is_active = TRUE ORDER BY start_time ASC")).
		WithArgs("wh-1").
		WillReturnRows(rows)

	breaks, err := repo.ListActiveForWorkingHour(context.Background(), "wh-1")
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.Equal(t, "12:00:00", breaks[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
