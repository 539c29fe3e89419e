package report

import (
	"github.com/eshaffer321/rankbudget/internal/domain/allocator"
	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// ChannelSummary describes one channel's allocation.
type ChannelSummary struct {
	Channel    curve.Channel    `json:"channel"`
	Status     allocator.Status `json:"status"`
	Budget     float64          `json:"budget"`
	Overrun    float64          `json:"overrun"`
	Keywords   int              `json:"keywords"`
	KeptTop    int              `json:"kept_top"`
	Downgraded int              `json:"downgraded"`
	Rejected   int              `json:"rejected"`
	// Utilization is cost/budget; 0 for a zero budget.
	Utilization float64 `json:"utilization"`
	Totals      Totals  `json:"totals"`
}

// Summarize reports totals and downgrade counts for r.
func Summarize(r *allocator.Result) ChannelSummary {
	s := ChannelSummary{
		Channel:  r.Channel,
		Status:   r.Status,
		Budget:   r.Budget,
		Overrun:  r.Overrun,
		Keywords: len(r.Picks),
		Rejected: len(r.Rejected),
	}

	points := make([]curve.RankPoint, 0, len(r.Picks))
	for _, p := range r.Picks {
		points = append(points, p.Point)
		if p.Point.Rank == 1 {
			s.KeptTop++
		} else {
			s.Downgraded++
		}
	}
	s.Totals = Sum(points...)
	if r.Budget > 0 {
		s.Utilization = s.Totals.Cost / r.Budget
	}
	return s
}

// Row is one keyword's placement on both channels. A nil point means the
// keyword has no placement on that channel.
type Row struct {
	Keyword string           `json:"keyword"`
	PC      *curve.RankPoint `json:"pc"`
	Mobile  *curve.RankPoint `json:"mobile"`
	Totals  Totals           `json:"totals"`
}

func (r *Row) finish() {
	var points []curve.RankPoint
	if r.PC != nil {
		points = append(points, *r.PC)
	}
	if r.Mobile != nil {
		points = append(points, *r.Mobile)
	}
	r.Totals = Sum(points...)
}

// Join builds one row per keyword from per-channel picks. Either slice may
// be nil. Rows follow the Desktop order, then Mobile-only keywords.
func Join(pc, mobile []allocator.Pick) ([]Row, Totals) {
	rows := make([]Row, 0, len(pc)+len(mobile))
	index := map[string]int{}

	row := func(keyword string) *Row {
		i, ok := index[keyword]
		if !ok {
			i = len(rows)
			index[keyword] = i
			rows = append(rows, Row{Keyword: keyword})
		}
		return &rows[i]
	}

	for _, p := range pc {
		point := p.Point
		row(p.Keyword).PC = &point
	}
	for _, p := range mobile {
		point := p.Point
		row(p.Keyword).Mobile = &point
	}

	var total Totals
	for i := range rows {
		rows[i].finish()
		total = Merge(total, rows[i].Totals)
	}
	return rows, total
}

// Combined joins the Desktop and Mobile allocations per keyword.
type Combined struct {
	PC     *ChannelSummary `json:"pc,omitempty"`
	Mobile *ChannelSummary `json:"mobile,omitempty"`
	Rows   []Row           `json:"rows"`
	Totals Totals          `json:"totals"`
}

// Combine merges both channels. Either result may be nil.
func Combine(pc, mobile *allocator.Result) Combined {
	var out Combined
	var pcPicks, mobilePicks []allocator.Pick

	if pc != nil {
		s := Summarize(pc)
		out.PC = &s
		pcPicks = pc.Picks
	}
	if mobile != nil {
		s := Summarize(mobile)
		out.Mobile = &s
		mobilePicks = mobile.Picks
	}

	out.Rows, out.Totals = Join(pcPicks, mobilePicks)
	return out
}
