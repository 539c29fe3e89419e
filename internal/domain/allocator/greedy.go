// Package allocator chooses a placement rank for every keyword on a channel
// under a budget ceiling.
//
// Greedy Downgrade starts every keyword at rank 1 and, while spend exceeds the
// budget, applies the one-step downgrade that loses the least performance per
// unit of cost saved:
//
//	lps = (metric[r] - metric[r+1]) / (cost[r] - cost[r+1])
//
// When no downgrade is left and the budget is still exceeded, every keyword is
// forced to the channel floor and the overrun is reported.
//
// UniformRankByBudget is the coarse alternative: one rank for all keywords.
package allocator

import (
	"errors"
	"fmt"
	"math"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

var (
	ErrInvalidBudget    = errors.New("budget must be a non-negative number")
	ErrDuplicateKeyword = errors.New("duplicate keyword")
	ErrMixedChannels    = errors.New("curves span more than one channel")
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusSatisfied means total cost is within budget.
	StatusSatisfied Status = "satisfied"
	// StatusFloorFallback means downgrades ran out and the floor assignment
	// was returned. It may still exceed the budget.
	StatusFloorFallback Status = "floor_fallback"
)

// Pick is the rank chosen for one keyword.
type Pick struct {
	Keyword string          `json:"keyword"`
	Point   curve.RankPoint `json:"point"`
}

// Result is the immutable outcome of one GreedyDowngrade run.
type Result struct {
	Channel     curve.Channel      `json:"channel"`
	Objective   Objective          `json:"objective"`
	Budget      float64            `json:"budget"`
	MaxRank     int                `json:"max_rank"`
	Status      Status             `json:"status"`
	Picks       []Pick             `json:"picks"`
	TotalCost   float64            `json:"total_cost"`
	TotalMetric float64            `json:"total_metric"`
	Overrun     float64            `json:"overrun"`
	Iterations  int                `json:"iterations"`
	Steps       []Candidate        `json:"steps,omitempty"`
	Rejected    []curve.Diagnostic `json:"rejected,omitempty"`
}

// Pick returns the assignment for keyword.
func (r *Result) Pick(keyword string) (Pick, bool) {
	for _, p := range r.Picks {
		if p.Keyword == keyword {
			return p, true
		}
	}
	return Pick{}, false
}

// Infeasible reports whether the budget could not be met.
func (r *Result) Infeasible() bool {
	return r.Overrun > 0
}

// GreedyDowngrade allocates one rank per keyword for a single channel.
// Malformed curves are excluded and listed in Result.Rejected; every other
// input keyword appears exactly once in Result.Picks, in input order.
func GreedyDowngrade(curves []curve.Curve, budget float64, objective Objective) (*Result, error) {
	metric, err := objective.Metric()
	if err != nil {
		return nil, err
	}

	result, err := Downgrade(curves, budget, metric)
	if err != nil {
		return nil, err
	}
	result.Objective = objective
	return result, nil
}

// Downgrade runs Greedy Downgrade against an arbitrary metric selector.
func Downgrade(curves []curve.Curve, budget float64, metric MetricFunc) (*Result, error) {
	valid, rejected, channel, err := prepare(curves, budget)
	if err != nil {
		return nil, err
	}

	s := newState(valid)
	maxRank := curve.MaxRank(valid)
	limit := len(valid) * (maxRank - 1)

	var steps []Candidate
	total := s.totalCost()
	for total > budget && len(steps) < limit {
		best, ok := Best(s.candidates(maxRank, metric))
		if !ok {
			break
		}
		s.apply(best)
		steps = append(steps, best)
		total = s.totalCost()
	}

	status := StatusSatisfied
	if total > budget {
		s.floor(maxRank)
		status = StatusFloorFallback
	}

	result := &Result{
		Channel:    channel,
		Budget:     budget,
		MaxRank:    maxRank,
		Status:     status,
		Picks:      make([]Pick, 0, len(valid)),
		Iterations: len(steps),
		Steps:      steps,
		Rejected:   rejected,
	}
	for _, c := range valid {
		p := s.point(c.Keyword)
		result.Picks = append(result.Picks, Pick{Keyword: c.Keyword, Point: p})
		result.TotalCost += p.Cost
		result.TotalMetric += metric(p)
	}
	result.Overrun = math.Max(0, result.TotalCost-budget)

	return result, nil
}

// prepare checks arguments and separates valid curves from malformed ones.
func prepare(curves []curve.Curve, budget float64) ([]curve.Curve, []curve.Diagnostic, curve.Channel, error) {
	if math.IsNaN(budget) || budget < 0 {
		return nil, nil, "", fmt.Errorf("%w: %v", ErrInvalidBudget, budget)
	}

	var channel curve.Channel
	seen := make(map[string]bool, len(curves))
	valid := make([]curve.Curve, 0, len(curves))
	var rejected []curve.Diagnostic

	for _, c := range curves {
		if channel == "" {
			channel = c.Channel
		} else if c.Channel != channel {
			return nil, nil, "", fmt.Errorf("%w: %s and %s", ErrMixedChannels, channel, c.Channel)
		}
		if seen[c.Keyword] {
			return nil, nil, "", fmt.Errorf("%w: %q", ErrDuplicateKeyword, c.Keyword)
		}
		seen[c.Keyword] = true

		if d, ok := c.Validate(); !ok {
			rejected = append(rejected, d)
			continue
		}
		valid = append(valid, c)
	}

	return valid, rejected, channel, nil
}
