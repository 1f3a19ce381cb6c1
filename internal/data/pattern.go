// Package data holds supervised training patterns and their text file format.
package data

import (
	"fmt"

	"github.com/born-ml/bpnet/internal/linalg"
)

// Pattern is one input vector paired with its desired output.
type Pattern struct {
	Input  linalg.Vector
	Target linalg.Vector
}

// NewPattern returns a zero pattern with in inputs and out targets. Non-positive
// sizes yield invalid vectors.
func NewPattern(in, out int) Pattern {
	return Pattern{
		Input:  linalg.NewVector(in),
		Target: linalg.NewVector(out),
	}
}

// PatternFromRow splits row into the first in values (input) and the next out
// values (target). The row must hold exactly in+out values.
func PatternFromRow(in, out int, row linalg.Vector) (Pattern, error) {
	p := NewPattern(in, out)
	if err := p.Set(in, out, row); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// Set overwrites p with the split of row, resizing p's vectors to in and out.
func (p *Pattern) Set(in, out int, row linalg.Vector) error {
	if in <= 0 || out <= 0 {
		return fmt.Errorf("%w: %d inputs, %d outputs", ErrBadHeader, in, out)
	}
	if !row.Valid() {
		return linalg.ErrInvalid
	}
	if row.Dim() != in+out {
		return fmt.Errorf("%w: row has %d values, want %d", linalg.ErrDimensionMismatch, row.Dim(), in+out)
	}

	vals := row.Values()
	p.Input = linalg.VectorOf(vals[:in]...)
	p.Target = linalg.VectorOf(vals[in:]...)
	return nil
}

// Clone returns a deep copy of p.
func (p Pattern) Clone() Pattern {
	return Pattern{Input: p.Input.Clone(), Target: p.Target.Clone()}
}
