package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appointly/appointly-api/internal/service"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
	"github.com/appointly/appointly-api/pkg/response"
)

// ScheduleHandler exposes working hour and break period administration
// plus the public localized weekly schedule.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// ListWorkingHours godoc
// @Summary List working hours with localized day names
// @Tags Schedule
// @Produce json
// @Param locale query string false "Day name locale (en, es, fr, de)"
// @Success 200 {object} response.Envelope
// @Router /working-hours [get]
func (h *ScheduleHandler) ListWorkingHours(c *gin.Context) {
	views, locale, err := h.schedule.ListWorkingHours(c.Request.Context(), c.Query("locale"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil, map[string]interface{}{"locale": locale})
}

// CreateWorkingHour godoc
// @Summary Configure working hours for a weekday
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.CreateWorkingHourRequest true "Working hour payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/working-hours [post]
func (h *ScheduleHandler) CreateWorkingHour(c *gin.Context) {
	var req service.CreateWorkingHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	wh, err := h.schedule.CreateWorkingHour(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, wh)
}

// UpdateWorkingHour godoc
// @Summary Update a weekday's working hours
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Working hour ID"
// @Param payload body service.UpdateWorkingHourRequest true "Working hour payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/working-hours/{id} [put]
func (h *ScheduleHandler) UpdateWorkingHour(c *gin.Context) {
	var req service.UpdateWorkingHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	wh, err := h.schedule.UpdateWorkingHour(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wh, nil)
}

// DeleteWorkingHour godoc
// @Summary Delete a weekday's working hours
// @Tags Schedule
// @Param id path string true "Working hour ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/working-hours/{id} [delete]
func (h *ScheduleHandler) DeleteWorkingHour(c *gin.Context) {
	if err := h.schedule.DeleteWorkingHour(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBreakPeriods godoc
// @Summary List break periods for a working hour
// @Tags Schedule
// @Produce json
// @Param id path string true "Working hour ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/working-hours/{id}/breaks [get]
func (h *ScheduleHandler) ListBreakPeriods(c *gin.Context) {
	breaks, err := h.schedule.ListBreakPeriods(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breaks, nil)
}

// CreateBreakPeriod godoc
// @Summary Add a break period to a working hour
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Working hour ID"
// @Param payload body service.CreateBreakPeriodRequest true "Break period payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/working-hours/{id}/breaks [post]
func (h *ScheduleHandler) CreateBreakPeriod(c *gin.Context) {
	var req service.CreateBreakPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bp, err := h.schedule.CreateBreakPeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bp)
}

// UpdateBreakPeriod godoc
// @Summary Update a break period
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Break period ID"
// @Param payload body service.UpdateBreakPeriodRequest true "Break period payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/breaks/{id} [put]
func (h *ScheduleHandler) UpdateBreakPeriod(c *gin.Context) {
	var req service.UpdateBreakPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bp, err := h.schedule.UpdateBreakPeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bp, nil)
}

// DeleteBreakPeriod godoc
// @Summary Delete a break period
// @Tags Schedule
// @Param id path string true "Break period ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/breaks/{id} [delete]
func (h *ScheduleHandler) DeleteBreakPeriod(c *gin.Context) {
	if err := h.schedule.DeleteBreakPeriod(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
