package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/metrics"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

// RateLimit limits by client IP. Limiter failures let the request through.
func RateLimit(l Limiter, m *metrics.Metrics, logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		ok, err := l.Allow(c.Request.Context(), c.FullPath()+"|"+c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter error", "error", err)
			c.Next()
			return
		}
		if !ok {
			m.ObserveRateLimited()
			c.Header("Retry-After", strconv.Itoa(int(l.Window().Seconds())))
			httperr.Abort(c, http.StatusTooManyRequests, "rate_limited", "Demasiadas solicitudes, probá de nuevo en unos minutos.")
			return
		}
		c.Next()
	}
}
