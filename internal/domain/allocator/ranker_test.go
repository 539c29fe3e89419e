package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Candidate
		want bool
	}{
		{
			name: "zero loss beats any positive lps",
			a:    Candidate{Keyword: "z", DeltaCost: 1, DeltaMetric: 0, LPS: 0},
			b:    Candidate{Keyword: "a", DeltaCost: 100, DeltaMetric: 0.001, LPS: 0.00001},
			want: true,
		},
		{
			name: "zero loss beats negative lps",
			a:    Candidate{Keyword: "z", DeltaCost: 1},
			b:    Candidate{Keyword: "a", DeltaCost: 10, DeltaMetric: -5, LPS: -0.5},
			want: true,
		},
		{
			name: "lower lps first",
			a:    Candidate{Keyword: "b", DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
			b:    Candidate{Keyword: "a", DeltaCost: 50, DeltaMetric: 10, LPS: 0.2},
			want: true,
		},
		{
			name: "lps within tolerance falls through to larger saving",
			a:    Candidate{Keyword: "b", DeltaCost: 10, DeltaMetric: 1.0005, LPS: 0.10005},
			b:    Candidate{Keyword: "a", DeltaCost: 5, DeltaMetric: 0.5, LPS: 0.1},
			want: true,
		},
		{
			name: "equal saving prefers deeper target",
			a:    Candidate{Keyword: "b", ToRank: 3, DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
			b:    Candidate{Keyword: "a", ToRank: 2, DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
			want: true,
		},
		{
			name: "full tie orders by keyword",
			a:    Candidate{Keyword: "a", ToRank: 2, DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
			b:    Candidate{Keyword: "b", ToRank: 2, DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Less(tt.a, tt.b))
			assert.Equal(t, !tt.want, Less(tt.b, tt.a))
		})
	}
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	best, ok := Best([]Candidate{
		{Keyword: "a", DeltaCost: 10, DeltaMetric: 5, LPS: 0.5},
		{Keyword: "b", DeltaCost: 10, DeltaMetric: 1, LPS: 0.1},
		{Keyword: "c", DeltaCost: 20, DeltaMetric: 4, LPS: 0.2},
	})
	assert.True(t, ok)
	assert.Equal(t, "b", best.Keyword)
}

func TestCandidates_SkipsNonSavingSteps(t *testing.T) {
	s := newState(workedExample())
	metric, err := ObjectiveClicks.Metric()
	assert.NoError(t, err)

	got := s.candidates(3, metric)
	assert.Len(t, got, 2)

	s.ranks["A"] = 3
	s.ranks["B"] = 3
	assert.Empty(t, s.candidates(3, metric))
}

func TestParseObjective(t *testing.T) {
	tests := []struct {
		in      string
		want    Objective
		wantErr bool
	}{
		{in: "", want: ObjectiveClicks},
		{in: "clicks", want: ObjectiveClicks},
		{in: " Clicks ", want: ObjectiveClicks},
		{in: "클릭 최대화", want: ObjectiveClicks},
		{in: "impressions", want: ObjectiveImpressions},
		{in: "IMPR", want: ObjectiveImpressions},
		{in: "노출 최대화", want: ObjectiveImpressions},
		{in: "conversions", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseObjective(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownObjective)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
