package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/dto"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
	"github.com/BruksfildServices01/turnos/internal/timezone"
	"github.com/BruksfildServices01/turnos/internal/usecase/appointment"
)

// ======================================================
// USE CASES
// ======================================================

type AppointmentCreator interface {
	Execute(ctx context.Context, in appointment.CreateAppointmentInput) (*models.Appointment, error)
}

type AppointmentStatusUpdater interface {
	Execute(ctx context.Context, businessID, userID, appointmentID uint, status string) (*models.Appointment, error)
}

type AppointmentDeleter interface {
	Execute(ctx context.Context, businessID, userID, appointmentID uint) error
}

type AppointmentsByDate interface {
	Execute(ctx context.Context, businessID, staffID uint, date string) ([]dto.AppointmentListDTO, error)
}

type AppointmentsByMonth interface {
	Execute(ctx context.Context, businessID, staffID uint, year, month int) ([]dto.AppointmentListDTO, error)
}

type AvailabilityFinder interface {
	Execute(ctx context.Context, in appointment.AvailabilityInput) ([]availability.Slot, error)
}

type WeekGridBuilder interface {
	Execute(ctx context.Context, businessID, staffID uint, startDate string) ([]appointment.DaySlots, error)
}

// AppointmentUseCases groups what the owner agenda needs.
type AppointmentUseCases struct {
	Create       AppointmentCreator
	UpdateStatus AppointmentStatusUpdater
	Delete       AppointmentDeleter
	ByDate       AppointmentsByDate
	ByMonth      AppointmentsByMonth
	Availability AvailabilityFinder
	Week         WeekGridBuilder
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	StaffID     uint   `json:"staff_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Notes       string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	uid := userID(c)
	ap, err := h.uc.Create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		BusinessID:  businessID(c),
		UserID:      &uid,
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
		Source:      domain.SourceOwner,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "La fecha es obligatoria.")
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_staff_id", "Profesional inválido.")
		return
	}

	aps, err := h.uc.ByDate.Execute(c.Request.Context(), businessID(c), staffID, date)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_staff_id", "Profesional inválido.")
		return
	}

	aps, err := h.uc.ByMonth.Execute(c.Request.Context(), businessID(c), staffID, year, month)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// STATUS / DELETE
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.uc.UpdateStatus.Execute(c.Request.Context(), businessID(c), userID(c), id, req.Status)
	if err != nil {
		writeError(c, err, "failed_to_update_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), businessID(c), userID(c), id); err != nil {
		writeError(c, err, "failed_to_delete_appointment")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// AGENDA GRID
// ======================================================

// Availability is the owner's day grid: a slot is taken only when a
// booking starts exactly there.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	staffID, okStaff := queryID(c, "staff_id")
	serviceID, okService := queryID(c, "service_id")
	if date == "" || !okStaff || !okService || staffID == 0 {
		httperr.BadRequest(c, "missing_params", "Fecha y profesional son obligatorios.")
		return
	}

	slots, err := h.uc.Availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		BusinessID: businessID(c),
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       date,
		Match:      availability.MatchExact,
	})
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

func (h *AppointmentHandler) Week(c *gin.Context) {
	staffID, ok := queryID(c, "staff_id")
	if !ok || staffID == 0 {
		httperr.BadRequest(c, "missing_staff_id", "El profesional es obligatorio.")
		return
	}
	start := c.Query("start")
	if start == "" {
		var tz string
		if s, ok := session.From(c); ok {
			tz = s.Business().Timezone
		}
		start = timezone.NowIn(tz).Format("2006-01-02")
	}

	days, err := h.uc.Week.Execute(c.Request.Context(), businessID(c), staffID, start)
	if err != nil {
		writeError(c, err, "week_grid_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start": start,
		"days":  days,
	})
}

// yearMonth reads ?year=&month= or writes the error response.
func yearMonth(c *gin.Context) (int, int, bool) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Año y mes son obligatorios.")
		return 0, 0, false
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Año inválido.")
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mes inválido.")
		return 0, 0, false
	}
	return year, month, true
}
