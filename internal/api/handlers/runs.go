package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

// RunsHandler handles stored run requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(svc *service.OptimizeService) *RunsHandler {
	return &RunsHandler{Base: NewBase(svc)}
}

// List handles GET /api/runs requests. Query parameters: kind, limit and
// include_result.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := dto.DefaultRunListParams()
	params.Limit = ParseIntParam(r, "limit", params.Limit)
	params.Kind = r.URL.Query().Get("kind")
	params.IncludeResult = ParseBoolParam(r, "include_result", params.IncludeResult)

	switch params.Kind {
	case "", storage.KindGreedy, storage.KindUniform, storage.KindAnalyze:
	default:
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("unknown run kind: "+params.Kind))
		return
	}

	runs, err := h.svc.ListRuns(r.Context(), storage.RunFilters{
		Kind:  params.Kind,
		Limit: params.Limit,
	})
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		// Listings skip result documents; load them one run at a time on request.
		if params.IncludeResult {
			run, err = h.svc.GetRun(r.Context(), run.ID)
			if err != nil {
				h.WriteServiceError(w, err)
				return
			}
		}
		item := dto.NewRunResponse(run)
		if !params.IncludeResult {
			item.Result = nil
		}
		response.Runs = append(response.Runs, item)
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} requests.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewRunResponse(run))
}
