package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type sectionAccess struct {
	Section plan.Section `json:"section"`
	Allowed bool         `json:"allowed"`
	// set when Allowed is false
	RequiredPlan plan.ID `json:"required_plan,omitempty"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		httperr.Unauthorized(c, "session_missing", "Sesión requerida.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, s.UserID()).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"business": s.Business(),
		"plan":     s.Plan(),
		"sections": sections(s),
	})
}

func sections(s *session.Session) []sectionAccess {
	all := []plan.Section{
		plan.SectionAgenda,
		plan.SectionServices,
		plan.SectionStaff,
		plan.SectionSettings,
		plan.SectionCRM,
		plan.SectionFinance,
	}
	out := make([]sectionAccess, 0, len(all))
	for _, sec := range all {
		a := sectionAccess{Section: sec, Allowed: true}
		if err := s.Can(sec); err != nil {
			a.Allowed = false
			a.RequiredPlan = plan.RequiredFor(sec).ID
		}
		out = append(out, a)
	}
	return out
}
