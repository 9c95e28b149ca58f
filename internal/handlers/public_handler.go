package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/domain/booking"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/turnos/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// BusinessLookup resolves the tenant of a public page.
type BusinessLookup interface {
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
}

// BookingFlow drives the public wizard.
type BookingFlow interface {
	Start(ctx context.Context, businessID uint) (*ucBooking.Session, error)
	Get(ctx context.Context, businessID uint, id string) (*ucBooking.Session, error)
	SelectService(ctx context.Context, b *models.Business, id string, serviceID uint) (*ucBooking.Session, error)
	SelectStaff(ctx context.Context, b *models.Business, id string, staffID uint) (*ucBooking.Session, error)
	SelectDateTime(ctx context.Context, b *models.Business, id, date, hm string) (*ucBooking.Session, error)
	Back(ctx context.Context, businessID uint, id string) (*ucBooking.Session, error)
	Submit(ctx context.Context, businessID uint, id string, c booking.Contact) (*ucBooking.Session, *models.Appointment, error)
	Book(ctx context.Context, b *models.Business, serviceID, staffID uint, date, hm string, c booking.Contact) (*models.Appointment, error)
}

type PublicHandler struct {
	db           *gorm.DB
	businesses   BusinessLookup
	availability AvailabilityFinder
	flow         BookingFlow
}

func NewPublicHandler(db *gorm.DB, businesses BusinessLookup, availability AvailabilityFinder, flow BookingFlow) *PublicHandler {
	return &PublicHandler{
		db:           db,
		businesses:   businesses,
		availability: availability,
		flow:         flow,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBusiness struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	BrandColor  string `json:"brand_color"`
	LogoURL     string `json:"logo_url"`
	OpeningHour int    `json:"opening_hour"`
	ClosingHour int    `json:"closing_hour"`
	Timezone    string `json:"timezone"`
}

type PublicService struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	DurationMin int      `json:"duration_min"`
	Price       *float64 `json:"price,omitempty"`
}

type PublicStaff struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type ContactRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Notes       string `json:"notes"`
}

func (r ContactRequest) contact() booking.Contact {
	return booking.Contact{
		Name:  r.ClientName,
		Phone: r.ClientPhone,
		Email: r.ClientEmail,
		Notes: r.Notes,
	}
}

type PublicCreateAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	ContactRequest
}

func publicBusiness(b *models.Business) PublicBusiness {
	return PublicBusiness{
		Name:        b.Name,
		Slug:        b.Slug,
		Phone:       b.Phone,
		Email:       b.Email,
		Address:     b.Address,
		BrandColor:  b.BrandColor,
		LogoURL:     b.LogoURL,
		OpeningHour: b.OpeningHour,
		ClosingHour: b.ClosingHour,
		Timezone:    b.Timezone,
	}
}

// publicServices drops the price of services that hide it.
func publicServices(services []models.Service) []PublicService {
	out := make([]PublicService, 0, len(services))
	for _, s := range services {
		ps := PublicService{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Category:    s.Category,
			DurationMin: s.DurationMin,
		}
		if !s.HidePrice {
			price := s.Price
			ps.Price = &price
		}
		out = append(out, ps)
	}
	return out
}

func (h *PublicHandler) business(c *gin.Context) (*models.Business, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	b, err := h.businesses.GetBySlug(c.Request.Context(), slug)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound), httperr.IsBusiness(err, "business_not_found"):
		httperr.NotFound(c, "business_not_found", "Negocio no encontrado.")
		return nil, false
	default:
		_ = c.Error(err)
		httperr.Internal(c, "business_lookup_failed", "Error interno, intentá de nuevo.")
		return nil, false
	}
	return b, true
}

////////////////////////////////////////////////////////
// PROFILE / CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) Profile(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}

	services, err := h.activeServices(c, b.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error al listar servicios.")
		return
	}
	staff, err := h.activeStaff(c, b.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Error al listar el equipo.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": publicBusiness(b),
		"services": publicServices(services),
		"staff":    staff,
	})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}

	services, err := h.activeServices(c, b.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error al listar servicios.")
		return
	}
	c.JSON(http.StatusOK, publicServices(services))
}

func (h *PublicHandler) ListStaff(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}

	staff, err := h.activeStaff(c, b.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Error al listar el equipo.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *PublicHandler) activeServices(c *gin.Context, businessID uint) ([]models.Service, error) {
	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("business_id = ? AND active = true", businessID)
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	err := q.Order("id ASC").Find(&services).Error
	return services, err
}

func (h *PublicHandler) activeStaff(c *gin.Context, businessID uint) ([]PublicStaff, error) {
	var staff []models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ? AND active = true", businessID).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}

	out := make([]PublicStaff, 0, len(staff))
	for _, s := range staff {
		out = append(out, PublicStaff{ID: s.ID, Name: s.Name, Specialty: s.Specialty})
	}
	return out, nil
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability blocks every slot whose service span overlaps a booking.
func (h *PublicHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	serviceID, okService := queryID(c, "service_id")
	staffID, okStaff := queryID(c, "staff_id")
	if date == "" || !okService || !okStaff || serviceID == 0 || staffID == 0 {
		httperr.BadRequest(c, "missing_params", "Fecha, servicio y profesional son obligatorios.")
		return
	}

	b, ok := h.business(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		BusinessID: b.ID,
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       date,
		Match:      availability.MatchOverlap,
	})
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	if c.Query("only_available") == "true" {
		slots = availability.Available(slots)
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING SESSIONS
////////////////////////////////////////////////////////

type selectServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

type selectStaffRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

type selectDateTimeRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *PublicHandler) StartBooking(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	s, err := h.flow.Start(c.Request.Context(), b.ID)
	if err != nil {
		writeError(c, err, "booking_start_failed")
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *PublicHandler) GetBooking(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	s, err := h.flow.Get(c.Request.Context(), b.ID, c.Param("session"))
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *PublicHandler) SelectService(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	var req selectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_selection", "Elegí un servicio.")
		return
	}
	s, err := h.flow.SelectService(c.Request.Context(), b, c.Param("session"), req.ServiceID)
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *PublicHandler) SelectStaff(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	var req selectStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_selection", "Elegí un profesional.")
		return
	}
	s, err := h.flow.SelectStaff(c.Request.Context(), b, c.Param("session"), req.StaffID)
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *PublicHandler) SelectDateTime(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	var req selectDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_selection", "Elegí fecha y hora.")
		return
	}
	s, err := h.flow.SelectDateTime(c.Request.Context(), b, c.Param("session"), req.Date, req.Time)
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *PublicHandler) Back(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	s, err := h.flow.Back(c.Request.Context(), b.ID, c.Param("session"))
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusOK, s)
}

// Submit confirms the wizard. On failure the session keeps every selection
// and carries the error in last_error.
func (h *PublicHandler) Submit(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Nombre y teléfono son obligatorios.")
		return
	}

	s, ap, err := h.flow.Submit(c.Request.Context(), b.ID, c.Param("session"), req.contact())
	if err != nil {
		writeError(c, err, "booking_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":     s,
		"appointment": publicAppointment(ap),
	})
}

////////////////////////////////////////////////////////
// ONE-SHOT CREATE
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	b, ok := h.business(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.flow.Book(c.Request.Context(), b, req.ServiceID, req.StaffID, req.Date, req.Time, req.contact())
	if err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, publicAppointment(ap))
}

// publicAppointment hides internal fields from the customer.
func publicAppointment(ap *models.Appointment) gin.H {
	if ap == nil {
		return nil
	}
	return gin.H{
		"id":         ap.ID,
		"service_id": ap.ServiceID,
		"staff_id":   ap.StaffID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
	}
}
