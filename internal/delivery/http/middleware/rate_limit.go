package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gx-services-backend/internal/delivery/http/response"
	"gx-services-backend/pkg/apperror"
	"gx-services-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for the store
	KeyPrefix string
	// Primary counter store (default: in-memory)
	Store RateLimitStore
	// Used when Store fails, unless FailClosed is set (default: in-memory)
	Fallback RateLimitStore
	// Whether to reject requests when Store is unavailable
	FailClosed bool
	Security   *security.SecurityLogger
	Logger     *slog.Logger
}

// SendEmailRateLimitConfig returns the contact endpoint policy: limit hits per window per IP.
func SendEmailRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:send-email:",
		FailClosed: false, // Fail open for availability
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Responses carry RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset (seconds);
// rejected requests also get Retry-After and a 429.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Store == nil {
		config.Store = NewMemoryStore()
	}
	if config.Fallback == nil {
		config.Fallback = NewMemoryStore()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := config.KeyPrefix + config.KeyFunc(c)

		count, resetAt, err := config.Store.Increment(ctx, key, config.Window)
		if err != nil {
			config.Logger.WarnContext(ctx, "rate limit store unavailable", "error", err)
			config.Security.Log(ctx, security.SecurityEvent{
				Event:       security.EventRateLimitStoreDown,
				SubjectType: "system",
				IP:          c.ClientIP(),
				RequestID:   requestIDFrom(c),
				Details:     map[string]interface{}{"error": err.Error()},
			})

			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt, _ = config.Fallback.Increment(ctx, key, config.Window)
		}

		resetIn := int(math.Ceil(time.Until(resetAt).Seconds()))
		if resetIn < 0 {
			resetIn = 0
		}
		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(resetIn))

		if count > config.Limit {
			retryAfter := resetIn
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			config.Security.LogRateLimitTriggered(ctx, c.ClientIP(), c.GetHeader("User-Agent"), requestIDFrom(c), c.Request.URL.Path)

			_ = c.Error(apperror.RateLimited())
			c.Abort()
			return
		}

		c.Next()
	}
}

// ForPath runs h for every method on path and the paths below it, and passes
// other requests through untouched. Mounted globally it also sees preflights and
// unmatched methods, which route-level middleware never does.
func ForPath(path string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == path || strings.HasPrefix(p, path+"/") {
			h(c)
			return
		}
		c.Next()
	}
}
