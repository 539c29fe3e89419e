package handlers

import (
	"fmt"
	"net/http"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
)

// OptimizeHandler handles optimization and analysis requests.
type OptimizeHandler struct {
	*Base
	defaults config.OptimizerConfig
}

// NewOptimizeHandler creates a new optimize handler. defaults supplies the
// budgets used when a request omits them.
func NewOptimizeHandler(svc *service.OptimizeService, defaults config.OptimizerConfig) *OptimizeHandler {
	return &OptimizeHandler{
		Base:     NewBase(svc),
		defaults: defaults,
	}
}

// Optimize handles POST /api/optimize requests.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	req, ok := h.optimizeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Optimize(r.Context(), req)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Uniform handles POST /api/optimize/uniform requests.
func (h *OptimizeHandler) Uniform(w http.ResponseWriter, r *http.Request) {
	req, ok := h.optimizeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Uniform(r.Context(), req)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Analyze handles POST /api/analyze requests.
func (h *OptimizeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body dto.AnalyzeRequest
	if err := h.DecodeJSON(w, r, &body); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if body.PCRank == nil || body.MobileRank == nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("pc_rank and mobile_rank are required"))
		return
	}

	result, err := h.svc.Analyze(r.Context(), service.AnalyzeRequest{
		PCRank:     *body.PCRank,
		MobileRank: *body.MobileRank,
		Keywords:   body.Keywords,
	})
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// optimizeRequest decodes the body and resolves budgets against defaults.
// It writes the error response itself and reports false on failure.
func (h *OptimizeHandler) optimizeRequest(w http.ResponseWriter, r *http.Request) (service.OptimizeRequest, bool) {
	var body dto.OptimizeRequest
	if err := h.DecodeJSON(w, r, &body); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return service.OptimizeRequest{}, false
	}

	pc, err := budget("pc_budget", body.PCBudget, h.defaults.PCBudget)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return service.OptimizeRequest{}, false
	}
	mobile, err := budget("mobile_budget", body.MobileBudget, h.defaults.MobileBudget)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return service.OptimizeRequest{}, false
	}

	return service.OptimizeRequest{
		PCBudget:     pc,
		MobileBudget: mobile,
		Objective:    body.Objective,
		Keywords:     body.Keywords,
	}, true
}

// budget resolves a request budget. An absent budget takes the configured
// default; a zero budget is rejected. Negative values are left to the
// service, which rejects them as invalid input.
func budget(name string, v *float64, fallback float64) (float64, error) {
	switch {
	case v == nil && fallback > 0:
		return fallback, nil
	case v == nil:
		return 0, fmt.Errorf("%s is required", name)
	case *v == 0:
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}
	return *v, nil
}
