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

type StaffHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, audit *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, audit: audit}
}

type StaffRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Active    *bool   `json:"active"`
}

func (h *StaffHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", businessID(c))
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var staff []models.Staff
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Error al listar el equipo.")
		return
	}
	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "invalid_name", "El nombre es obligatorio.")
		return
	}

	member := models.Staff{
		BusinessID: businessID(c),
		Name:       strings.TrimSpace(*req.Name),
		Active:     true,
	}
	if req.Specialty != nil {
		member.Specialty = strings.TrimSpace(*req.Specialty)
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&member).Error; err != nil {
		httperr.Internal(c, "failed_to_create_staff", "Error al crear el profesional.")
		return
	}

	h.log(c, "staff_created", member.ID)
	c.JSON(http.StatusCreated, member)
}

func (h *StaffHandler) Update(c *gin.Context) {
	member, ok := h.find(c)
	if !ok {
		return
	}

	var req StaffRequest
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
		member.Name = name
	}
	if req.Specialty != nil {
		member.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("WorkingHours").Save(member).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Error al guardar el profesional.")
		return
	}

	h.log(c, "staff_updated", member.ID)
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID(c)).
		Delete(&models.Staff{})
	if res.Error != nil {
		if httperr.IsForeignKeyViolation(res.Error) {
			httperr.Conflict(c, "staff_in_use", "El profesional tiene turnos; desactivalo en lugar de borrarlo.")
			return
		}
		httperr.Internal(c, "failed_to_delete_staff", "Error al borrar el profesional.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "staff_not_found", "Profesional no encontrado.")
		return
	}

	h.log(c, "staff_deleted", id)
	c.Status(http.StatusNoContent)
}

// find loads the :id staff member of the session business or writes the
// error response.
func (h *StaffHandler) find(c *gin.Context) (*models.Staff, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var member models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID(c)).
		First(&member).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Profesional no encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_staff", "Error al buscar el profesional.")
		return nil, false
	}
	return &member, true
}

func (h *StaffHandler) log(c *gin.Context, action string, id uint) {
	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: businessID(c),
		UserID:     &uid,
		Action:     action,
		Entity:     "staff",
		EntityID:   &id,
	})
}
