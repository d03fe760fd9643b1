package middleware

import "github.com/gin-gonic/gin"

// UntrustedContent marks responses as user supplied files.
// SVG uploads can carry script, so the browser renders them in a sandbox with no access to the site origin.
func UntrustedContent() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self' data:; media-src 'self'; style-src 'unsafe-inline'; sandbox")
		h.Set("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
