package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/models"
	"github.com/appointly/appointly-api/internal/repository"
	"github.com/appointly/appointly-api/internal/service"
	"github.com/appointly/appointly-api/internal/timeslot"
)

type stubServiceReader struct {
	services map[string]models.Service
}

func (s *stubServiceReader) FindByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &svc, nil
}

type stubHourReader struct {
	hours map[int]models.WorkingHour
}

func (s *stubHourReader) FindActiveByDay(ctx context.Context, dayOfWeek int) (*models.WorkingHour, error) {
	wh, ok := s.hours[dayOfWeek]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &wh, nil
}

func (s *stubHourReader) ActiveDays(ctx context.Context) ([]int, error) {
	var days []int
	for d := 0; d <= 6; d++ {
		if _, ok := s.hours[d]; ok {
			days = append(days, d)
		}
	}
	return days, nil
}

type stubBreakReader struct{}

func (s *stubBreakReader) ListActiveForWorkingHour(ctx context.Context, workingHourID string) ([]models.BreakPeriod, error) {
	return nil, nil
}

type stubLedger struct {
	bookings []models.Booking
}

func (s *stubLedger) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	for _, b := range s.bookings {
		if !b.BookingDate.Equal(booking.BookingDate) || b.Status == models.BookingCancelled {
			continue
		}
		hit, err := timeslot.OverlapsStrings(booking.StartTime, booking.EndTime, b.StartTime, b.EndTime)
		if err != nil {
			return err
		}
		if hit {
			return repository.ErrBookingConflict
		}
	}
	booking.ID = "bk-new"
	s.bookings = append(s.bookings, *booking)
	return nil
}

func (s *stubLedger) HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	return false, nil
}

func (s *stubLedger) ListByDate(ctx context.Context, date time.Time, excludeCancelled bool) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
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

func (s *stubLedger) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	return s.bookings, len(s.bookings), nil
}

func (s *stubLedger) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubLedger) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubLedger) Delete(ctx context.Context, id string) error {
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newBookingRouter(ledger *stubLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	services := &stubServiceReader{services: map[string]models.Service{
		"svc-60": {ID: "svc-60", Name: "Haircut", DurationMinutes: 60, Price: 35},
	}}
	hours := &stubHourReader{hours: map[int]models.WorkingHour{
		1: {ID: "wh-mon", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "17:00:00", IsActive: true},
	}}

	frozenClock := func() time.Time {
		return time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	}
	slotSvc := service.NewSlotService(services, hours, &stubBreakReader{}, ledger, nil, nil).WithClock(frozenClock)
	bookingSvc := service.NewBookingService(ledger, services, nil, nil, nil, "pending").WithClock(frozenClock)

	h := NewBookingHandler(slotSvc, bookingSvc)
	router := gin.New()
	router.GET("/api/available-slots", h.AvailableSlots)
	router.GET("/api/working-days", h.WorkingDays)
	router.GET("/api/bookings", h.List)
	router.POST("/api/bookings", h.Create)
	router.GET("/api/admin/bookings", h.List)
	router.PATCH("/api/admin/bookings/:id/status", h.UpdateStatus)
	router.DELETE("/api/admin/bookings/:id", h.Delete)
	router.GET("/api/admin/bookings/export", h.Export)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	// 2025-06-02 is a Monday with 09:00-17:00 working hours.
	req, _ := http.NewRequest(http.MethodGet, "/api/available-slots?date=2025-06-02&service_id=svc-60", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"start_time":"09:00"`)
	assert.Contains(t, resp.Body.String(), `"end_time":"17:00"`)
}

func TestAvailableSlotsEndpointRejectsBadDate(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodGet, "/api/available-slots?date=junk&service_id=svc-60", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
}

func TestAvailableSlotsEndpointRequiresServiceID(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodGet, "/api/available-slots?date=2025-06-02", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAvailableSlotsEndpointUnknownService(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodGet, "/api/available-slots?date=2025-06-02&service_id=nope", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWorkingDaysEndpoint(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodGet, "/api/working-days", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"data":[1]`)
}

func TestCreateBookingEndpoint(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	payload := `{"service_id":"svc-60","client_email":"client@example.com","booking_date":"2025-06-02","start_time":"10:00","end_time":"11:00"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"pending"`)
}

func TestCreateBookingEndpointConflict(t *testing.T) {
	ledger := &stubLedger{bookings: []models.Booking{{
		ID: "b1", ServiceID: "svc-60", BookingDate: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:30", EndTime: "11:30", Status: models.BookingConfirmed,
	}}}
	router := newBookingRouter(ledger)

	payload := `{"service_id":"svc-60","client_email":"client@example.com","booking_date":"2025-06-02","start_time":"10:00","end_time":"11:00"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "SLOT_TAKEN")
	assert.Len(t, ledger.bookings, 1)
}

func TestCreateBookingEndpointBadJSON(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListBookingsPublicEndpoint(t *testing.T) {
	ledger := &stubLedger{bookings: []models.Booking{{
		ID: "b1", ServiceID: "svc-60", ClientEmail: "client@example.com",
		BookingDate: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00", EndTime: "11:00", Status: models.BookingConfirmed,
		Service: &models.Service{ID: "svc-60", Name: "Haircut", DurationMinutes: 60},
	}}}
	router := newBookingRouter(ledger)

	// The listing is reachable without an Authorization header.
	req, _ := http.NewRequest(http.MethodGet, "/api/bookings", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"client_email":"client@example.com"`)
	assert.Contains(t, resp.Body.String(), `"name":"Haircut"`)
	assert.Contains(t, resp.Body.String(), `"pagination"`)
}

func TestUpdateBookingStatusEndpoint(t *testing.T) {
	ledger := &stubLedger{bookings: []models.Booking{{
		ID: "b1", ServiceID: "svc-60", BookingDate: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00", EndTime: "11:00", Status: models.BookingPending,
	}}}
	router := newBookingRouter(ledger)

	req, _ := http.NewRequest(http.MethodPatch, "/api/admin/bookings/b1/status", bytes.NewBufferString(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, models.BookingConfirmed, ledger.bookings[0].Status)
}

func TestDeleteBookingEndpointMissing(t *testing.T) {
	router := newBookingRouter(&stubLedger{})

	req, _ := http.NewRequest(http.MethodDelete, "/api/admin/bookings/missing", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExportBookingsEndpoint(t *testing.T) {
	ledger := &stubLedger{bookings: []models.Booking{{
		ID: "b1", ServiceID: "svc-60", ClientEmail: "client@example.com",
		BookingDate: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00", EndTime: "11:00", Status: models.BookingConfirmed,
	}}}
	router := newBookingRouter(ledger)

	req, _ := http.NewRequest(http.MethodGet, "/api/admin/bookings/export?format=csv", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "bookings-20250101.csv")
	assert.Contains(t, resp.Body.String(), "client@example.com")
}
