package allocator

import "math"

// LPSTolerance is the distance below which two loss-per-spend values are
// treated as equal when ranking candidates.
const LPSTolerance = 1e-4

// Less reports whether a should be applied before b:
// zero-loss first, then ascending LPS (within LPSTolerance is a tie), then
// larger saving, then deeper target rank, then keyword.
func Less(a, b Candidate) bool {
	aZero, bZero := a.DeltaMetric == 0, b.DeltaMetric == 0
	if aZero != bZero {
		return aZero
	}
	if !aZero && math.Abs(a.LPS-b.LPS) >= LPSTolerance {
		return a.LPS < b.LPS
	}
	if a.DeltaCost != b.DeltaCost {
		return a.DeltaCost > b.DeltaCost
	}
	if a.ToRank != b.ToRank {
		return a.ToRank > b.ToRank
	}
	return a.Keyword < b.Keyword
}

// Best returns the candidate to apply next.
func Best(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if Less(c, best) {
			best = c
		}
	}
	return best, true
}
