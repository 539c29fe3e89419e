package storage

import (
	"encoding/json"
	"time"
)

// Run kinds
const (
	KindGreedy  = "greedy"
	KindUniform = "uniform"
	KindAnalyze = "analyze"
)

// Run is one stored optimization.
type Run struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Objective    string    `json:"objective,omitempty"`
	KeywordCount int       `json:"keyword_count"`
	TotalCost    float64   `json:"total_cost"`
	TotalClicks  float64   `json:"total_clicks"`
	TotalImpr    float64   `json:"total_impr"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`

	Channels []RunChannel `json:"channels"`

	// Result is the full response document, only loaded by GetRun.
	Result json.RawMessage `json:"result,omitempty"`
}

// RunChannel summarizes one channel of a run.
type RunChannel struct {
	Channel    string  `json:"channel"`
	Budget     float64 `json:"budget"`
	Status     string  `json:"status"`
	Rank       int     `json:"rank,omitempty"` // uniform and analyze runs
	TotalCost  float64 `json:"total_cost"`
	Overrun    float64 `json:"overrun"`
	Keywords   int     `json:"keywords"`
	Downgraded int     `json:"downgraded"`
	Rejected   int     `json:"rejected"`
}
