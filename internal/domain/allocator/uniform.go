package allocator

import (
	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// RankTotal is the cost of placing every keyword at Rank.
type RankTotal struct {
	Rank      int     `json:"rank"`
	TotalCost float64 `json:"total_cost"`
	// Missing counts keywords with no point at Rank. Such a rank is never
	// selected.
	Missing int `json:"missing,omitempty"`
}

// UniformResult is the outcome of UniformRankByBudget. Rank is zero and
// Picks is empty when no uniform rank fits the budget.
type UniformResult struct {
	Channel   curve.Channel      `json:"channel"`
	Budget    float64            `json:"budget"`
	Feasible  bool               `json:"feasible"`
	Rank      int                `json:"rank,omitempty"`
	TotalCost float64            `json:"total_cost"`
	Totals    []RankTotal        `json:"totals"`
	Picks     []Pick             `json:"picks,omitempty"`
	Rejected  []curve.Diagnostic `json:"rejected,omitempty"`
}

// UniformRankByBudget picks the single rank, applied to every keyword, with
// the greatest total cost that still fits the budget.
func UniformRankByBudget(curves []curve.Curve, budget float64) (*UniformResult, error) {
	valid, rejected, channel, err := prepare(curves, budget)
	if err != nil {
		return nil, err
	}

	maxRank := curve.MaxRank(valid)
	result := &UniformResult{
		Channel:  channel,
		Budget:   budget,
		Totals:   make([]RankTotal, 0, maxRank),
		Rejected: rejected,
	}

	best := -1
	for rank := 1; rank <= maxRank; rank++ {
		total := RankTotal{Rank: rank}
		for _, c := range valid {
			p, ok := c.Lookup(rank)
			if !ok {
				total.Missing++
				continue
			}
			total.TotalCost += p.Cost
		}
		result.Totals = append(result.Totals, total)

		if total.Missing > 0 || total.TotalCost > budget {
			continue
		}
		if best < 0 || total.TotalCost > result.Totals[best].TotalCost {
			best = len(result.Totals) - 1
		}
	}

	if best < 0 || len(valid) == 0 {
		return result, nil
	}

	chosen := result.Totals[best]
	result.Feasible = true
	result.Rank = chosen.Rank
	result.TotalCost = chosen.TotalCost
	result.Picks = make([]Pick, 0, len(valid))
	for _, c := range valid {
		p, _ := c.Lookup(chosen.Rank)
		result.Picks = append(result.Picks, Pick{Keyword: c.Keyword, Point: p})
	}

	return result, nil
}
