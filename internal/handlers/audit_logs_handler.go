package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/httpresp"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := httpresp.PageParams(c, auditDefaultLimit, auditMaxLimit)

	var tz string
	if s, ok := session.From(c); ok {
		tz = s.Business().Timezone
	}

	// always scoped to the session business
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("business_id = ?", businessID(c))

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if id, ok := queryID(c, "entity_id"); ok && id != 0 {
		q = q.Where("entity_id = ?", id)
	}
	if from := c.Query("from"); from != "" {
		if t, err := timezone.ParseDate(tz, from); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := timezone.ParseDate(tz, to); err == nil {
			q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Error al contar registros.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Error al listar registros.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
