package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	MessageID string      `json:"messageId,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// Success sends a success response. messageID is omitted when empty.
func Success(c *gin.Context, code int, message string, messageID string) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		MessageID: messageID,
	})
}

// Error sends an error response. err is only serialised when non-nil.
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

// ValidationError sends the per-field error list.
func ValidationError(c *gin.Context, code int, message string, errs interface{}) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
