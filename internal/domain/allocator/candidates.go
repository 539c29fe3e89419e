package allocator

import (
	"sort"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// Candidate is a one-step downgrade of a single keyword.
type Candidate struct {
	Keyword     string  `json:"keyword"`
	FromRank    int     `json:"from_rank"`
	ToRank      int     `json:"to_rank"`
	DeltaCost   float64 `json:"delta_cost"`
	DeltaMetric float64 `json:"delta_metric"`
	LPS         float64 `json:"lps"`
}

// state is the mutable keyword -> rank assignment owned by one run.
type state struct {
	curves map[string]curve.Curve
	order  []string // sorted keywords, fixes enumeration order
	ranks  map[string]int
}

func newState(curves []curve.Curve) *state {
	s := &state{
		curves: make(map[string]curve.Curve, len(curves)),
		order:  make([]string, 0, len(curves)),
		ranks:  make(map[string]int, len(curves)),
	}
	for _, c := range curves {
		s.curves[c.Keyword] = c
		s.order = append(s.order, c.Keyword)
		s.ranks[c.Keyword] = 1
	}
	sort.Strings(s.order)
	return s
}

// point returns the point at the keyword's current rank.
func (s *state) point(keyword string) curve.RankPoint {
	p, _ := s.curves[keyword].Lookup(s.ranks[keyword])
	return p
}

// totalCost sums cost at the current ranks.
func (s *state) totalCost() float64 {
	var total float64
	for _, kw := range s.order {
		total += s.point(kw).Cost
	}
	return total
}

func (s *state) apply(c Candidate) {
	s.ranks[c.Keyword] = c.ToRank
}

// candidates enumerates every valid one-step downgrade. Transitions onto a
// missing rank or ones that do not save money are skipped.
func (s *state) candidates(maxRank int, metric MetricFunc) []Candidate {
	var out []Candidate
	for _, kw := range s.order {
		rank := s.ranks[kw]
		if rank >= maxRank {
			continue
		}
		c := s.curves[kw]
		cur, ok := c.Lookup(rank)
		if !ok {
			continue
		}
		next, ok := c.Lookup(rank + 1)
		if !ok {
			continue
		}

		deltaCost := cur.Cost - next.Cost
		if deltaCost <= 0 {
			continue
		}
		deltaMetric := metric(cur) - metric(next)

		out = append(out, Candidate{
			Keyword:     kw,
			FromRank:    rank,
			ToRank:      rank + 1,
			DeltaCost:   deltaCost,
			DeltaMetric: deltaMetric,
			LPS:         deltaMetric / deltaCost,
		})
	}
	return out
}
