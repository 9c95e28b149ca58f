package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
)

// BusinessLoader resolves a business snapshot, usually through the cache.
type BusinessLoader interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
}

// SessionMiddleware runs after AuthMiddleware and resolves the session
// once per request.
func SessionMiddleware(loader BusinessLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID := c.GetUint(ContextBusinessID)
		b, err := loader.GetByID(c.Request.Context(), businessID)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "business_not_found", "El negocio de la sesión no existe.")
			return
		}

		session.Attach(c, session.New(c.GetUint(ContextUserID), c.GetString(ContextUserRole), *b))
		c.Next()
	}
}
