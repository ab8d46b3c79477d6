package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

// Pinger is a dependency the health check reports on.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

// Healthz GET /healthz. Optional backends only degrade the report.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.Checks))
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			status[name] = "down"
			continue
		}
		status[name] = "up"
	}
	response.Success(c, http.StatusOK, status, "ok", nil)
}
