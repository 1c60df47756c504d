package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"salespulse/internal/services"
)

// HealthHandler serves liveness information.
type HealthHandler struct {
	service   *services.AnalysisService
	startedAt time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(service *services.AnalysisService) *HealthHandler {
	return &HealthHandler{service: service, startedAt: time.Now()}
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, hasData := h.service.Current()
	render.JSON(w, r, map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).String(),
		"has_data": hasData,
	})
}
