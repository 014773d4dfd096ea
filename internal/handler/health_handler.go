package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/vendor_console/internal/utils"
)

var startTime = time.Now()

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	version string
	checks  map[string]Check
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// GetHealth responds with service and dependency status. The service is
// reported healthy even when optional dependencies are down.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	deps := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		status := "connected"
		if err := check(ctx); err != nil {
			status = "disconnected"
		}
		deps[name] = gin.H{"status": status}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":       "healthy",
		"version":      h.version,
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	})
}
