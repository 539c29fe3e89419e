package curve

// Keyword is one row of a bulk estimate: the keyword plus its PC and Mobile
// rank tables. The JSON shape matches the parsed upload format.
type Keyword struct {
	Keyword string      `json:"keyword"`
	PC      []RankPoint `json:"PC"`
	Mobile  []RankPoint `json:"Mobile"`
}

// Points returns the rank table for channel.
func (k Keyword) Points(channel Channel) []RankPoint {
	if channel == Mobile {
		return k.Mobile
	}
	return k.PC
}

// ForChannel builds one curve per keyword for channel, in input order.
// Curves are not validated here; a keyword with no table for the channel
// yields an empty curve that the allocator reports as missing_channel.
func ForChannel(keywords []Keyword, channel Channel) []Curve {
	curves := make([]Curve, 0, len(keywords))
	for _, k := range keywords {
		curves = append(curves, New(k.Keyword, channel, k.Points(channel)))
	}
	return curves
}

// Names returns the keyword strings in input order.
func Names(keywords []Keyword) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, k.Keyword)
	}
	return out
}
