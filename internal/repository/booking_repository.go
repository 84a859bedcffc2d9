package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/appointly/appointly-api/internal/models"
	"github.com/appointly/appointly-api/internal/timeslot"
)

// ErrBookingConflict is returned when an admission loses to an overlapping
// booking, whether detected by the in-transaction check or by the
// (booking_date, start_time) unique constraint backstop.
var ErrBookingConflict = errors.New("booking conflicts with an existing booking")

const dateLayout = "2006-01-02"

// BookingRepository is the ledger of committed bookings. It answers
// conflict queries and owns the serialized admission transaction.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingRow struct {
	models.Booking
	ServiceName     sql.NullString  `db:"service_name"`
	ServiceDuration sql.NullInt64   `db:"service_duration_minutes"`
	ServicePrice    sql.NullFloat64 `db:"service_price"`
}

func (row bookingRow) toBooking() models.Booking {
	b := row.Booking
	if row.ServiceName.Valid {
		b.Service = &models.Service{
			ID:              b.ServiceID,
			Name:            row.ServiceName.String,
			DurationMinutes: int(row.ServiceDuration.Int64),
			Price:           row.ServicePrice.Float64,
		}
	}
	return b
}

const bookingSelect = `SELECT b.id, b.service_id, b.client_email, b.booking_date, b.start_time, b.end_time, b.status, b.created_at, b.updated_at,
s.name AS service_name, s.duration_minutes AS service_duration_minutes, s.price AS service_price
FROM bookings b
JOIN services s ON s.id = b.service_id`

// window is the minimal shape needed for overlap evaluation.
type window struct {
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// overlapsAny applies the shared half-open overlap predicate against each
// stored window. Evaluating in Go keeps this the exact same rule the slot
// generator filters with.
func overlapsAny(startTime, endTime string, windows []window) (bool, error) {
	for _, w := range windows {
		hit, err := timeslot.OverlapsStrings(startTime, endTime, w.StartTime, w.EndTime)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

// HasConflict reports whether any non-cancelled booking on the date
// overlaps [startTime, endTime).
func (r *BookingRepository) HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	const query = `SELECT start_time, end_time FROM bookings
WHERE booking_date = $1 AND status <> 'cancelled'`
	var windows []window
	if err := r.db.SelectContext(ctx, &windows, query, date.Format(dateLayout)); err != nil {
		return false, fmt.Errorf("load bookings for conflict check: %w", err)
	}
	return overlapsAny(startTime, endTime, windows)
}

// ListByDate returns the date's bookings in chronological order with the
// linked service loaded. excludeCancelled narrows to the rows that matter
// for availability.
func (r *BookingRepository) ListByDate(ctx context.Context, date time.Time, excludeCancelled bool) ([]models.Booking, error) {
	query := bookingSelect + "\nWHERE b.booking_date = $1"
	if excludeCancelled {
		query += " AND b.status <> 'cancelled'"
	}
	query += "\nORDER BY b.start_time ASC"

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, date.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("list bookings by date: %w", err)
	}
	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toBooking())
	}
	return bookings, nil
}

// List returns bookings matching the filter ordered by (booking_date,
// start_time) together with the total match count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("b.booking_date = $%d", len(args)+1))
		args = append(args, filter.Date.Format(dateLayout))
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, string(filter.Status))
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("b.booking_date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom.Format(dateLayout))
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("b.booking_date <= $%d", len(args)+1))
		args = append(args, filter.DateTo.Format(dateLayout))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY b.booking_date ASC, b.start_time ASC LIMIT %d OFFSET %d",
		bookingSelect, whereClause, size, offset)
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings b WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toBooking())
	}
	return bookings, total, nil
}

// FindByID fetches a booking with its service.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := bookingSelect + "\nWHERE b.id = $1"
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	booking := row.toBooking()
	return &booking, nil
}

// CreateIfFree commits the booking unless it overlaps a non-cancelled
// booking on the same date. The conflict re-check and the insert run in one
// serializable transaction with the date's rows locked, so of two racing
// overlapping requests at most one succeeds; the unique constraint on
// (booking_date, start_time) backstops the degenerate same-start race.
// Returns ErrBookingConflict when the slot is taken; nothing is written in
// that case.
func (r *BookingRepository) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin admission tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const lockQuery = `SELECT start_time, end_time FROM bookings
WHERE booking_date = $1 AND status <> 'cancelled' FOR UPDATE`
	var windows []window
	if err := tx.SelectContext(ctx, &windows, lockQuery, booking.BookingDate.Format(dateLayout)); err != nil {
		return fmt.Errorf("lock bookings for date: %w", err)
	}

	conflict, err := overlapsAny(booking.StartTime, booking.EndTime, windows)
	if err != nil {
		return fmt.Errorf("evaluate conflict: %w", err)
	}
	if conflict {
		return ErrBookingConflict
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	const insertQuery = `INSERT INTO bookings (id, service_id, client_email, booking_date, start_time, end_time, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, insertQuery,
		booking.ID,
		booking.ServiceID,
		booking.ClientEmail,
		booking.BookingDate.Format(dateLayout),
		booking.StartTime,
		booking.EndTime,
		string(booking.Status),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isAdmissionRace(err) {
			return ErrBookingConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isAdmissionRace(err) {
			return ErrBookingConflict
		}
		return fmt.Errorf("commit admission tx: %w", err)
	}
	return nil
}

// UpdateStatus overwrites a booking's status. By design there is no
// conflict re-check here: cancelling never conflicts, and reinstating a
// cancelled booking into a now-occupied window is accepted.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// isAdmissionRace recognises the storage-level symptoms of two admissions
// racing: the unique (booking_date, start_time) violation and serialization
// failures under the serializable isolation level.
func isAdmissionRace(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" || pqErr.Code == "40001"
	}
	return false
}
