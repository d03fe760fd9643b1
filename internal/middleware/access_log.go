package middleware

import (
	"time"

	"github.com/cabpool/internal/logger"
	"github.com/gin-gonic/gin"
)

// AccessLog logs every request through the structured logger.
// RequestID must run first so the entry carries the request id.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
