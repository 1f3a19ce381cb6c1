package data

import (
	"fmt"
)

// PatternSet is an ordered collection of patterns that all share the same
// input and output sizes. Training visits patterns in insertion order.
type PatternSet struct {
	InputN  int // Units per input vector
	OutputN int // Units per target vector

	patterns []Pattern
}

// NewPatternSet returns an empty set for in-input, out-output patterns.
func NewPatternSet(in, out int) (*PatternSet, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrBadHeader, in, out)
	}
	return &PatternSet{InputN: in, OutputN: out}, nil
}

// Len returns the number of patterns.
func (s *PatternSet) Len() int {
	return len(s.patterns)
}

// Patterns returns the patterns in order. The slice is a copy; the vectors
// are shared with the set.
func (s *PatternSet) Patterns() []Pattern {
	return append([]Pattern(nil), s.patterns...)
}

// Pattern returns the i-th pattern and whether i was in range.
func (s *PatternSet) Pattern(i int) (Pattern, bool) {
	if i < 0 || i >= len(s.patterns) {
		return Pattern{}, false
	}
	return s.patterns[i], true
}

// Add appends p after checking its dimensions against the set.
func (s *PatternSet) Add(p Pattern) error {
	if p.Input.Dim() != s.InputN || p.Target.Dim() != s.OutputN {
		return fmt.Errorf("%w: got %d/%d, want %d/%d",
			ErrPatternSize, p.Input.Dim(), p.Target.Dim(), s.InputN, s.OutputN)
	}
	s.patterns = append(s.patterns, p)
	return nil
}

// Clone returns a deep copy of the set.
func (s *PatternSet) Clone() *PatternSet {
	c := &PatternSet{InputN: s.InputN, OutputN: s.OutputN, patterns: make([]Pattern, len(s.patterns))}
	for i, p := range s.patterns {
		c.patterns[i] = p.Clone()
	}
	return c
}
