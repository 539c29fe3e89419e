package dto

import "github.com/eshaffer321/rankbudget/internal/domain/curve"

// OptimizeRequest is the body of POST /api/optimize and /api/optimize/uniform.
// A nil budget falls back to the configured default for that channel.
type OptimizeRequest struct {
	PCBudget     *float64        `json:"pc_budget"`
	MobileBudget *float64        `json:"mobile_budget"`
	Objective    string          `json:"objective"` // "clicks", "impressions" or the Korean option labels
	Keywords     []curve.Keyword `json:"keywords"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	PCRank     *int            `json:"pc_rank"`
	MobileRank *int            `json:"mobile_rank"`
	Keywords   []curve.Keyword `json:"keywords"`
}

// CategorizeRequest is the body of POST /api/keywords/categorize.
type CategorizeRequest struct {
	Keywords []string `json:"keywords"`
}

// RunListParams represents query parameters for listing runs.
type RunListParams struct {
	Kind          string `json:"kind"`
	Limit         int    `json:"limit"`
	IncludeResult bool   `json:"include_result"`
}

// DefaultRunListParams returns default values for run list params.
func DefaultRunListParams() RunListParams {
	return RunListParams{
		Limit: 20,
	}
}
