package report

import (
	"errors"
	"fmt"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// ErrInvalidRank is returned when a fixed rank is below 1.
var ErrInvalidRank = errors.New("rank must be at least 1")

// AnalysisSummary aggregates a fixed-rank analysis.
type AnalysisSummary struct {
	TotalKeywords int     `json:"total_keywords"`
	TotalClicks   float64 `json:"total_clicks"`
	TotalCost     float64 `json:"total_cost"`
	AvgCPC        float64 `json:"avg_cpc"`
}

// Analysis shows what every keyword would do if placed at one fixed rank per
// channel.
type Analysis struct {
	PCRank     int             `json:"pc_rank"`
	MobileRank int             `json:"mobile_rank"`
	Summary    AnalysisSummary `json:"summary"`
	Keywords   []Row           `json:"keywords"`
}

// Analyze places every keyword at pcRank on Desktop and mobileRank on Mobile.
// A keyword without a point at the requested rank contributes nothing on that
// channel but is still listed and counted.
func Analyze(keywords []curve.Keyword, pcRank, mobileRank int) (*Analysis, error) {
	if pcRank < 1 || mobileRank < 1 {
		return nil, fmt.Errorf("%w: pc=%d mobile=%d", ErrInvalidRank, pcRank, mobileRank)
	}

	a := &Analysis{
		PCRank:     pcRank,
		MobileRank: mobileRank,
		Keywords:   make([]Row, 0, len(keywords)),
	}

	var total Totals
	for _, k := range keywords {
		r := Row{Keyword: k.Keyword}
		if p, ok := curve.New(k.Keyword, curve.Desktop, k.PC).Lookup(pcRank); ok {
			r.PC = &p
		}
		if p, ok := curve.New(k.Keyword, curve.Mobile, k.Mobile).Lookup(mobileRank); ok {
			r.Mobile = &p
		}
		r.finish()
		total = Merge(total, r.Totals)
		a.Keywords = append(a.Keywords, r)
	}

	a.Summary = AnalysisSummary{
		TotalKeywords: len(keywords),
		TotalClicks:   total.Clicks,
		TotalCost:     total.Cost,
		AvgCPC:        total.CPC,
	}
	return a, nil
}
