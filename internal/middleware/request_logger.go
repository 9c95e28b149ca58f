package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/turnos/internal/logging"
)

const ContextRequestID = "requestID"

// RequestLogger emits one structured line per request and echoes the
// request id back in X-Request-ID.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextRequestID, reqID)
		c.Header("X-Request-ID", reqID)

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", reqID,
			"remote_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if v, ok := c.Get(ContextBusinessID); ok {
			attrs = append(attrs, "business_id", v)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request completed", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
	}
}
