package middleware

import (
	"net/http"

	"gx-services-backend/pkg/apperror"
	"gx-services-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware enforces the configured origin allow list.
//
// - No Origin header (curl, server to server, mobile apps): allowed.
// - Origin on the list: CORS headers are set, preflights answer 204.
// - Any other Origin: 403 "CORS policy violation", for preflights too.
func CORSMiddleware(allowedOrigins []string, secLog *security.SecurityLogger) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		if origin == "" {
			c.Next()
			return
		}

		if !allowed[origin] {
			secLog.LogCORSRejected(c.Request.Context(), origin, c.ClientIP(), requestIDFrom(c))
			_ = c.Error(apperror.CorsRejected(origin))
			c.Abort()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Content-Length", "0")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
