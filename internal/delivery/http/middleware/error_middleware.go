package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"gx-services-backend/internal/delivery/http/response"
	"gx-services-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error. Server-side faults are
// logged with their full cause; the cause is echoed to the client only when
// exposeDetails is set (development).
func ErrorHandler(log *slog.Logger, exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.As(c.Errors.Last().Err)

		if appErr.ServerFault() {
			log.ErrorContext(c.Request.Context(), "Request failed",
				"kind", string(appErr.Kind),
				"error", appErr.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestIDFrom(c),
			)
		}

		switch appErr.Kind {
		case apperror.KindValidation:
			response.ValidationError(c, appErr.Code, appErr.Message, appErr.Details)

		case apperror.KindDispatchFailed, apperror.KindInternal:
			var detail interface{}
			if exposeDetails && appErr.Err != nil {
				detail = appErr.Err.Error()
			}
			response.Error(c, appErr.Code, appErr.Message, detail)

		default:
			// ServiceUnavailable, NotFound, CorsRejected, MalformedBody, RateLimited...
			// never carry diagnostics.
			response.Error(c, appErr.Code, appErr.Message, nil)
		}
	}
}

// Recovery turns panics into a 500 JSON response instead of a dropped connection.
func Recovery(log *slog.Logger, exposeDetails bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		err := fmt.Errorf("panic: %v", recovered)
		log.ErrorContext(c.Request.Context(), "Global error handler",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"request_id", requestIDFrom(c),
		)

		var detail interface{}
		if exposeDetails {
			detail = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error", detail)
		c.Abort()
	})
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound())
		c.Abort()
	}
}
