package curve

import (
	"fmt"
	"strings"
)

// Reason classifies why a curve was rejected.
type Reason string

const (
	ReasonMissingChannel Reason = "missing_channel"
	ReasonNoRankOne      Reason = "no_rank_one"
	ReasonInvalidRank    Reason = "invalid_rank"
	ReasonDuplicateRank  Reason = "duplicate_rank"
	ReasonNegativeValue  Reason = "negative_value"
	ReasonEmptyKeyword   Reason = "empty_keyword"
)

// Diagnostic explains why a keyword was excluded from one channel's
// optimization. Rejected keywords are reported, never silently zero-filled.
type Diagnostic struct {
	Keyword string  `json:"keyword"`
	Channel Channel `json:"channel"`
	Reason  Reason  `json:"reason"`
	Detail  string  `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Keyword, d.Channel.Label(), d.Reason)
	}
	return fmt.Sprintf("%s [%s]: %s (%s)", d.Keyword, d.Channel.Label(), d.Reason, d.Detail)
}

// Validate checks the structural invariants the allocator relies on and
// returns a diagnostic for the first violation found.
func (c Curve) Validate() (Diagnostic, bool) {
	reject := func(reason Reason, detail string) (Diagnostic, bool) {
		return Diagnostic{Keyword: c.Keyword, Channel: c.Channel, Reason: reason, Detail: detail}, false
	}

	if strings.TrimSpace(c.Keyword) == "" {
		return reject(ReasonEmptyKeyword, "")
	}
	if len(c.points) == 0 {
		return reject(ReasonMissingChannel, "no rank points")
	}

	seen := make(map[int]bool, len(c.points))
	for _, p := range c.points {
		if p.Rank < 1 {
			return reject(ReasonInvalidRank, fmt.Sprintf("rank %d", p.Rank))
		}
		if seen[p.Rank] {
			return reject(ReasonDuplicateRank, fmt.Sprintf("rank %d", p.Rank))
		}
		seen[p.Rank] = true
		if p.Cost < 0 || p.Clicks < 0 || p.Impressions < 0 {
			return reject(ReasonNegativeValue, fmt.Sprintf("rank %d", p.Rank))
		}
	}

	if !seen[1] {
		return reject(ReasonNoRankOne, "")
	}
	return Diagnostic{}, true
}
