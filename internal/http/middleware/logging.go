package middleware

import (
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logging writes one access log line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Get().Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", GetRequestID(c),
			"client_ip", c.ClientIP(),
		)
	}
}
