package inet

// redexStack holds pending active pairs. Pop returns the most recently pushed
// pair first.
type redexStack struct {
	items []Redex
}

func (s *redexStack) Push(r Redex) {
	s.items = append(s.items, r)
}

func (s *redexStack) Pop() (Redex, bool) {
	if len(s.items) == 0 {
		return Redex{}, false
	}
	last := len(s.items) - 1
	r := s.items[last]
	s.items = s.items[:last]
	return r, true
}

func (s *redexStack) Len() int { return len(s.items) }

// Snapshot returns the pending pairs, oldest first.
func (s *redexStack) Snapshot() []Redex {
	res := make([]Redex, len(s.items))
	copy(res, s.items)
	return res
}
