package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/featureflags"
)

// OfflineGate is the kill switch: when the offline flag is on, everything but
// the health endpoints answers 503.
func OfflineGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}
		if featureflags.Values().Offline.IsEnabled(nil) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily offline"})
			return
		}
		c.Next()
	}
}
