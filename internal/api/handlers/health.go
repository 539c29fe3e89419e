package handlers

import (
	"net/http"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/application/service"
)

// HealthHandler reports whether the run store and categorizer are usable.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(svc *service.OptimizeService) *HealthHandler {
	return &HealthHandler{Base: NewBase(svc)}
}

// ServeHTTP handles GET /health requests. An unreadable store answers 503 so
// load balancers stop routing to the instance.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health, err := h.svc.Health()
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, status, dto.NewHealthResponse(health, err))
}
