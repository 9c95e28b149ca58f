package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/session"
)

// UpgradeResponse is the 402 body: the error plus the plan that unlocks
// the section.
type UpgradeResponse struct {
	httperr.HTTPError
	Section          plan.Section `json:"section"`
	RequiredPlan     plan.ID      `json:"required_plan"`
	RequiredPlanName string       `json:"required_plan_name"`
}

func NewUpgradeResponse(up *plan.UpgradeRequired) UpgradeResponse {
	return UpgradeResponse{
		HTTPError: httperr.HTTPError{
			Code:    "upgrade_required",
			Message: up.Message(),
		},
		Section:          up.Section,
		RequiredPlan:     up.RequiredPlan,
		RequiredPlanName: up.RequiredPlanName,
	}
}

// RequireSection blocks the route unless the session plan includes section.
func RequireSection(section plan.Section, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.From(c)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "session_missing", "Sesión requerida.")
			return
		}

		err := s.Can(section)
		var up *plan.UpgradeRequired
		if errors.As(err, &up) {
			m.ObserveGateDenial(string(section), string(s.Plan().ID))
			c.AbortWithStatusJSON(http.StatusPaymentRequired, NewUpgradeResponse(up))
			return
		}

		c.Next()
	}
}
