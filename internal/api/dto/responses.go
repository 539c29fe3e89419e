package dto

import (
	"encoding/json"
	"time"

	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/domain/categorizer"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

// Health statuses.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status      string        `json:"status"`
	Timestamp   string        `json:"timestamp"`
	Storage     StorageHealth `json:"storage"`
	Categorizer bool          `json:"categorizer_enabled"`
	Error       string        `json:"error,omitempty"`
}

// StorageHealth describes the run store.
type StorageHealth struct {
	Enabled       bool  `json:"enabled"`
	SchemaVersion int64 `json:"schema_version"`
}

// NewHealthResponse builds a health response stamped with the current time.
// A non-nil err marks the response degraded.
func NewHealthResponse(h service.Health, err error) HealthResponse {
	resp := HealthResponse{
		Status:    HealthOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Storage: StorageHealth{
			Enabled:       h.StorageEnabled,
			SchemaVersion: h.SchemaVersion,
		},
		Categorizer: h.CategorizerEnabled,
	}
	if err != nil {
		resp.Status = HealthDegraded
		resp.Error = err.Error()
	}
	return resp
}

// RunChannelResponse summarizes one channel of a stored run.
type RunChannelResponse struct {
	Channel    string  `json:"channel"`
	Budget     float64 `json:"budget"`
	Status     string  `json:"status,omitempty"`
	Rank       int     `json:"rank,omitempty"`
	TotalCost  float64 `json:"total_cost"`
	Overrun    float64 `json:"overrun"`
	Keywords   int     `json:"keywords"`
	Downgraded int     `json:"downgraded"`
	Rejected   int     `json:"rejected"`
}

// RunResponse represents a stored run in API responses.
type RunResponse struct {
	ID           string               `json:"id"`
	Kind         string               `json:"kind"`
	Objective    string               `json:"objective,omitempty"`
	KeywordCount int                  `json:"keyword_count"`
	TotalCost    float64              `json:"total_cost"`
	TotalClicks  float64              `json:"total_clicks"`
	TotalImpr    float64              `json:"total_impr"`
	DurationMS   int64                `json:"duration_ms"`
	CreatedAt    string               `json:"created_at"`
	Channels     []RunChannelResponse `json:"channels"`
	Result       json.RawMessage      `json:"result,omitempty"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// NewRunResponse converts a stored run.
func NewRunResponse(run *storage.Run) RunResponse {
	resp := RunResponse{
		ID:           run.ID,
		Kind:         run.Kind,
		Objective:    run.Objective,
		KeywordCount: run.KeywordCount,
		TotalCost:    run.TotalCost,
		TotalClicks:  run.TotalClicks,
		TotalImpr:    run.TotalImpr,
		DurationMS:   run.DurationMS,
		CreatedAt:    run.CreatedAt.UTC().Format(time.RFC3339),
		Channels:     make([]RunChannelResponse, 0, len(run.Channels)),
		Result:       run.Result,
	}
	for _, ch := range run.Channels {
		resp.Channels = append(resp.Channels, RunChannelResponse(ch))
	}
	return resp
}

// CategorizeResponse lists one category per keyword.
type CategorizeResponse struct {
	Categories  []string                 `json:"categories"`
	Assignments []categorizer.Assignment `json:"assignments"`
}

// NewCategorizeResponse converts a categorizer result.
func NewCategorizeResponse(r *categorizer.Result) CategorizeResponse {
	categories := r.Categories()
	if categories == nil {
		categories = []string{}
	}
	return CategorizeResponse{
		Categories:  categories,
		Assignments: r.Assignments,
	}
}
