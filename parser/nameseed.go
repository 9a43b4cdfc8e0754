package parser

import "fmt"

// NameSeed generates fresh, unique names for anonymous subroutines and
// compiler-introduced temporaries (spec.md §4.3). The seed advances by one
// per request; callers supply the starting seed so repeated compiles of
// the same source produce byte-identical names (and therefore byte-
// identical CompiledCode, per spec.md §8's determinism property).
type NameSeed struct {
	next uint64
}

// NewNameSeed returns a NameSeed starting at the given value.
func NewNameSeed(seed uint64) *NameSeed {
	return &NameSeed{next: seed}
}

// Next returns a fresh name of the form "prefix$N" and advances the seed.
func (s *NameSeed) Next(prefix string) string {
	n := s.next
	s.next++
	return fmt.Sprintf("%s$%d", prefix, n)
}
