// Package curve models the per-keyword rank tables produced by a bulk bid
// estimate: for each keyword and channel, the expected bid, impressions,
// clicks, CTR, CPC and cost at every placement rank.
package curve

import (
	"errors"
	"fmt"
	"sort"
)

// Channel is an ad delivery surface. Channels are optimized independently.
type Channel string

const (
	Desktop Channel = "pc"
	Mobile  Channel = "mobile"
)

// Channels lists every channel in reporting order.
var Channels = []Channel{Desktop, Mobile}

// ErrUnknownChannel is returned when parsing an unrecognized channel name.
var ErrUnknownChannel = errors.New("unknown channel")

// ParseChannel accepts the canonical names plus the labels used in
// estimate spreadsheets ("PC", "Mobile").
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "pc", "PC", "desktop", "Desktop":
		return Desktop, nil
	case "mobile", "Mobile", "MO":
		return Mobile, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Label returns the display name used in reports.
func (c Channel) Label() string {
	switch c {
	case Desktop:
		return "PC"
	case Mobile:
		return "Mobile"
	}
	return string(c)
}

// RankPoint is the estimate for one keyword at one rank on one channel.
type RankPoint struct {
	Rank        int     `json:"rank"`
	Bid         float64 `json:"bid"`
	Impressions float64 `json:"impr"`
	Clicks      float64 `json:"clicks"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	Cost        float64 `json:"cost"`
}

// Curve is the immutable rank table for a single (keyword, channel).
// Points are kept sorted ascending by rank. Ranks may be sparse.
type Curve struct {
	Keyword string
	Channel Channel

	points []RankPoint
	byRank map[int]int
}

// New builds a curve from points in any order. The input slice is copied.
func New(keyword string, channel Channel, points []RankPoint) Curve {
	sorted := make([]RankPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	byRank := make(map[int]int, len(sorted))
	for i, p := range sorted {
		if _, dup := byRank[p.Rank]; !dup {
			byRank[p.Rank] = i
		}
	}

	return Curve{
		Keyword: keyword,
		Channel: channel,
		points:  sorted,
		byRank:  byRank,
	}
}

// Lookup returns the point recorded at rank. A missing rank is not an error.
func (c Curve) Lookup(rank int) (RankPoint, bool) {
	i, ok := c.byRank[rank]
	if !ok {
		return RankPoint{}, false
	}
	return c.points[i], true
}

// Points returns a copy of the sorted points.
func (c Curve) Points() []RankPoint {
	out := make([]RankPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Len returns the number of recorded points.
func (c Curve) Len() int {
	return len(c.points)
}

// MaxRank returns the highest recorded rank, or 0 for an empty curve.
func (c Curve) MaxRank() int {
	if len(c.points) == 0 {
		return 0
	}
	return c.points[len(c.points)-1].Rank
}

// MaxRank returns the highest rank observed across curves. The allocator
// derives the channel floor from this instead of assuming a fixed table size.
func MaxRank(curves []Curve) int {
	max := 0
	for _, c := range curves {
		if r := c.MaxRank(); r > max {
			max = r
		}
	}
	return max
}
