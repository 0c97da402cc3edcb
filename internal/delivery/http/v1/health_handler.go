package v1

import (
	"net/http"
	"time"

	"gx-services-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// isoMillis matches the JavaScript toISOString layout the frontend already parses.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler registers the liveness route
func NewHealthHandler(r gin.IRoutes, environment string) {
	handler := &HealthHandler{
		environment: environment,
		now:         time.Now,
	}

	r.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{
		Success:     true,
		Message:     "GX Services Backend API is running",
		Timestamp:   h.now().UTC().Format(isoMillis),
		Environment: h.environment,
	})
}
