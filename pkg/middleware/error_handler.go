package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/metrics"
)

// ErrorHandler renders the last error a handler attached with c.Error as
// {"error": message} with the status of its apperr kind. Store and config
// causes are logged but never written to the response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ae := apperr.As(c.Errors.Last().Err)
		status := ae.HTTPStatus()
		metrics.ErrorsTotal.WithLabelValues(ae.Kind.String()).Inc()

		if status >= 500 {
			logger.L().Errorw("request failed",
				"kind", ae.Kind.String(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(RequestIDKey),
				"error", ae.Err,
			)
		}
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, gin.H{"error": ae.Message})
	}
}
