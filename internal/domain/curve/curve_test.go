package curve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SortsAndIndexes(t *testing.T) {
	input := []RankPoint{
		{Rank: 3, Cost: 10},
		{Rank: 1, Cost: 100},
		{Rank: 2, Cost: 50},
	}
	c := New("shoes", Desktop, input)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 3, c.MaxRank())
	points := c.Points()
	assert.Equal(t, []int{1, 2, 3}, []int{points[0].Rank, points[1].Rank, points[2].Rank})

	p, ok := c.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, 50.0, p.Cost)

	_, ok = c.Lookup(4)
	assert.False(t, ok)

	// mutating the input or the returned copy does not affect the curve
	input[1].Cost = -1
	points[0].Cost = -1
	p, _ = c.Lookup(1)
	assert.Equal(t, 100.0, p.Cost)
}

func TestMaxRank(t *testing.T) {
	curves := []Curve{
		New("a", Desktop, []RankPoint{{Rank: 1}, {Rank: 2}}),
		New("b", Desktop, []RankPoint{{Rank: 1}, {Rank: 7}}),
		New("c", Desktop, nil),
	}
	assert.Equal(t, 7, MaxRank(curves))
	assert.Equal(t, 0, MaxRank(nil))
	assert.Equal(t, 0, curves[2].MaxRank())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		curve  Curve
		want   Reason
		wantOK bool
	}{
		{name: "valid", curve: New("a", Desktop, []RankPoint{{Rank: 1, Cost: 5}, {Rank: 3, Cost: 1}}), wantOK: true},
		{name: "empty keyword", curve: New("  ", Desktop, []RankPoint{{Rank: 1}}), want: ReasonEmptyKeyword},
		{name: "no points", curve: New("a", Mobile, nil), want: ReasonMissingChannel},
		{name: "rank zero", curve: New("a", Desktop, []RankPoint{{Rank: 0}, {Rank: 1}}), want: ReasonInvalidRank},
		{name: "duplicate rank", curve: New("a", Desktop, []RankPoint{{Rank: 1}, {Rank: 1}}), want: ReasonDuplicateRank},
		{name: "negative cost", curve: New("a", Desktop, []RankPoint{{Rank: 1, Cost: -1}}), want: ReasonNegativeValue},
		{name: "no rank one", curve: New("a", Desktop, []RankPoint{{Rank: 2}}), want: ReasonNoRankOne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.curve.Validate()
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.want, d.Reason)
				assert.Equal(t, tt.curve.Channel, d.Channel)
			}
		})
	}
}

func TestParseChannel(t *testing.T) {
	for _, s := range []string{"pc", "PC", "desktop"} {
		c, err := ParseChannel(s)
		require.NoError(t, err)
		assert.Equal(t, Desktop, c)
	}
	c, err := ParseChannel("Mobile")
	require.NoError(t, err)
	assert.Equal(t, Mobile, c)
	assert.Equal(t, "Mobile", c.Label())
	assert.Equal(t, "PC", Desktop.Label())

	_, err = ParseChannel("tablet")
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestForChannel(t *testing.T) {
	raw := `[
		{"keyword": "a", "PC": [{"rank": 1, "bid": 500, "impr": 1000, "clicks": 20, "ctr": 0.02, "cpc": 400, "cost": 8000}], "Mobile": []},
		{"keyword": "b", "PC": [{"rank": 2, "cost": 10}], "Mobile": [{"rank": 1, "cost": 5}]}
	]`
	var keywords []Keyword
	require.NoError(t, json.Unmarshal([]byte(raw), &keywords))
	assert.Equal(t, []string{"a", "b"}, Names(keywords))

	pc := ForChannel(keywords, Desktop)
	require.Len(t, pc, 2)
	assert.Equal(t, Desktop, pc[0].Channel)
	p, ok := pc[0].Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 1000.0, p.Impressions)
	assert.Equal(t, 8000.0, p.Cost)

	d, ok := pc[1].Validate()
	assert.False(t, ok)
	assert.Equal(t, ReasonNoRankOne, d.Reason)

	mobile := ForChannel(keywords, Mobile)
	require.Len(t, mobile, 2)
	assert.Equal(t, 0, mobile[0].Len())
	d, ok = mobile[0].Validate()
	assert.False(t, ok)
	assert.Equal(t, ReasonMissingChannel, d.Reason)
	assert.Equal(t, "a [Mobile]: missing_channel (no rank points)", d.String())

	_, ok = mobile[1].Validate()
	assert.True(t, ok)
}
