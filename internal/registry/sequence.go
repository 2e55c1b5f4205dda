package registry

// sequence yields strictly increasing ids starting at 1. Callers serialize access.
type sequence struct{ next int64 }

func newSequence() sequence { return sequence{next: 1} }

func (s *sequence) take() int64 {
	id := s.next
	s.next++
	return id
}

func (s *sequence) peek() int64 { return s.next }
