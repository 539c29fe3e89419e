package allocator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/rankbudget/internal/domain/curve"
)

// Objective names the performance metric preserved under budget pressure.
type Objective string

const (
	ObjectiveClicks      Objective = "clicks"
	ObjectiveImpressions Objective = "impressions"
)

// ErrUnknownObjective is returned for objectives other than clicks or impressions.
var ErrUnknownObjective = errors.New("unknown objective")

// MetricFunc selects the metric a downgrade is measured against.
type MetricFunc func(curve.RankPoint) float64

// ParseObjective accepts the canonical names and the option labels of the
// estimate tool ("클릭 최대화", "노출 최대화"). Empty input means clicks.
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clicks", "click", "클릭 최대화":
		return ObjectiveClicks, nil
	case "impressions", "impression", "impr", "노출 최대화":
		return ObjectiveImpressions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownObjective, s)
}

// Metric returns the selector for o.
func (o Objective) Metric() (MetricFunc, error) {
	switch o {
	case ObjectiveClicks:
		return func(p curve.RankPoint) float64 { return p.Clicks }, nil
	case ObjectiveImpressions:
		return func(p curve.RankPoint) float64 { return p.Impressions }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownObjective, string(o))
}
