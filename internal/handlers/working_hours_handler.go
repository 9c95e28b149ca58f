package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/validators"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	staff *StaffHandler
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, staff *StaffHandler, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, staff: staff, audit: audit}
}

type WorkingDayConfig struct {
	// pointer so Sunday (0) passes "required"
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	member, ok := h.staff.find(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("staff_id = ?", member.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Error al buscar los horarios.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week of the staff member.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	member, ok := h.staff.find(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	toCreate, code := workingHoursRows(member.ID, req.Days)
	if code != "" {
		httperr.BadRequest(c, code, "Horario inválido: revisá inicio, fin y almuerzo de cada día.")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", member.ID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Error al guardar los horarios.")
		return
	}

	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: member.BusinessID,
		UserID:     &uid,
		Action:     "working_hours_updated",
		Entity:     "staff",
		EntityID:   &member.ID,
	})

	c.JSON(http.StatusOK, toCreate)
}

// workingHoursRows validates the submitted days. It returns an error code
// when a day is malformed.
func workingHoursRows(staffID uint, days []WorkingDayConfig) ([]models.WorkingHours, string) {
	seen := map[int]bool{}
	rows := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		wd := *d.Weekday
		if seen[wd] {
			return nil, "duplicate_weekday"
		}
		seen[wd] = true

		if d.Active {
			start, okS := minutesOf(d.StartTime)
			end, okE := minutesOf(d.EndTime)
			if !okS || !okE || start >= end {
				return nil, "invalid_working_hours"
			}
			if d.LunchStart != "" || d.LunchEnd != "" {
				ls, okLS := minutesOf(d.LunchStart)
				le, okLE := minutesOf(d.LunchEnd)
				if !okLS || !okLE || ls >= le || ls < start || le > end {
					return nil, "invalid_lunch_break"
				}
			}
		}

		rows = append(rows, models.WorkingHours{
			StaffID:    staffID,
			Weekday:    wd,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}
	return rows, ""
}

func minutesOf(hm string) (int, bool) {
	if !validators.IsTimeOfDay(hm) {
		return 0, false
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
