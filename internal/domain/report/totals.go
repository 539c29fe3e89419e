// Package report aggregates allocator output and fixed-rank selections into
// the totals shown to operators.
package report

import (
	"math"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// Totals sums a set of rank points. CTR and CPC are always derived from the
// summed parts, never averaged across rows.
type Totals struct {
	Impressions float64 `json:"impr"`
	Clicks      float64 `json:"clicks"`
	Cost        float64 `json:"cost"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
}

// Sum aggregates points.
func Sum(points ...curve.RankPoint) Totals {
	var t Totals
	for _, p := range points {
		t.Impressions += p.Impressions
		t.Clicks += p.Clicks
		t.Cost += p.Cost
	}
	return t.derive()
}

// Merge adds two totals and recomputes the ratios.
func Merge(a, b Totals) Totals {
	t := Totals{
		Impressions: a.Impressions + b.Impressions,
		Clicks:      a.Clicks + b.Clicks,
		Cost:        a.Cost + b.Cost,
	}
	return t.derive()
}

func (t Totals) derive() Totals {
	t.CTR = CTR(t.Clicks, t.Impressions)
	t.CPC = CPC(t.Cost, t.Clicks)
	return t
}

// CTR is clicks/impressions rounded to 4 decimals, 0 without impressions.
func CTR(clicks, impressions float64) float64 {
	if impressions == 0 {
		return 0
	}
	return math.Round(clicks/impressions*1e4) / 1e4
}

// CPC is cost/clicks rounded to a whole currency unit, 0 without clicks.
func CPC(cost, clicks float64) float64 {
	if clicks == 0 {
		return 0
	}
	return math.Round(cost / clicks)
}
