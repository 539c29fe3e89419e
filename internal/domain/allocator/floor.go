package allocator

// floor forces every keyword to the channel floor. A curve that stops short
// of maxRank uses its own last recorded rank. When an earlier rank costs
// exactly the same as the floor, the smallest such rank is reported instead.
func (s *state) floor(maxRank int) {
	for _, kw := range s.order {
		c := s.curves[kw]

		rank := maxRank
		p, ok := c.Lookup(rank)
		if !ok {
			rank = c.MaxRank()
			p, _ = c.Lookup(rank)
		}

		for r := 1; r < rank; r++ {
			if earlier, ok := c.Lookup(r); ok && earlier.Cost == p.Cost {
				rank = r
				break
			}
		}

		s.ranks[kw] = rank
	}
}
