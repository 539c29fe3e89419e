package handlers

import (
	"net/http"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/application/service"
)

// CategorizeHandler handles keyword categorization requests.
type CategorizeHandler struct {
	*Base
}

// NewCategorizeHandler creates a new categorize handler.
func NewCategorizeHandler(svc *service.OptimizeService) *CategorizeHandler {
	return &CategorizeHandler{Base: NewBase(svc)}
}

// Categorize handles POST /api/keywords/categorize requests.
func (h *CategorizeHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	if !h.svc.CategorizerEnabled() {
		h.WriteError(w, http.StatusServiceUnavailable, dto.UnavailableError(service.ErrCategorizerUnavailable.Error()))
		return
	}

	var body dto.CategorizeRequest
	if err := h.DecodeJSON(w, r, &body); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	result, err := h.svc.Categorize(r.Context(), body.Keywords)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewCategorizeResponse(result))
}
