package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/httpresp"
	"github.com/BruksfildServices01/turnos/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	DurationMin int     `json:"duration_min" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	HidePrice   bool    `json:"hide_price"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	HidePrice   *bool    `json:"hide_price,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	bid := businessID(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", bid)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error al listar servicios.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	bid := businessID(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Nombre, duración y precio mayor a cero son obligatorios.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_name", "El nombre es obligatorio.")
		return
	}

	service := models.Service{
		BusinessID:  bid,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
		HidePrice:   req.HidePrice,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Error al crear el servicio.")
		return
	}

	h.log(c, "service_created", service.ID, nil)
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	bid := businessID(c)
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, bid).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Error al buscar el servicio.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "El nombre es obligatorio.")
			return
		}
		service.Name = name
	}
	if req.Description != nil {
		service.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		service.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "La duración debe ser mayor a cero.")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_price", "El precio debe ser mayor a cero.")
			return
		}
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.HidePrice != nil {
		service.HidePrice = *req.HidePrice
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Error al guardar el servicio.")
		return
	}

	h.log(c, "service_updated", service.ID, nil)
	c.JSON(http.StatusOK, service)
}

// Delete removes the service. Services with appointments are kept; the
// owner deactivates them instead.
func (h *ServiceHandler) Delete(c *gin.Context) {
	bid := businessID(c)
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, bid).
		Delete(&models.Service{})
	if res.Error != nil {
		if httperr.IsForeignKeyViolation(res.Error) {
			httperr.Conflict(c, "service_in_use", "El servicio tiene turnos; desactivalo en lugar de borrarlo.")
			return
		}
		httperr.Internal(c, "failed_to_delete_service", "Error al borrar el servicio.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
		return
	}

	h.log(c, "service_deleted", id, nil)
	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) log(c *gin.Context, action string, id uint, meta any) {
	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: businessID(c),
		UserID:     &uid,
		Action:     action,
		Entity:     "service",
		EntityID:   &id,
		Metadata:   meta,
	})
}
