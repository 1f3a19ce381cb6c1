// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides training patterns and the pattern file format.
//
// A pattern file starts with the pattern count, input size and output size,
// followed by one row of input then target values per pattern:
//
//	4 2 1
//	0 0 0
//	0 1 1
//	1 0 1
//	1 1 0
package data

import (
	"io"

	"github.com/born-ml/bpnet/internal/data"
	"github.com/born-ml/bpnet/internal/linalg"
)

// Pattern is one input vector paired with its desired output.
type Pattern = data.Pattern

// PatternSet is an ordered collection of equally sized patterns.
type PatternSet = data.PatternSet

// NewPattern returns a zero pattern with in inputs and out targets.
func NewPattern(in, out int) Pattern {
	return data.NewPattern(in, out)
}

// PatternFromRow splits row into in input values and out target values.
func PatternFromRow(in, out int, row linalg.Vector) (Pattern, error) {
	return data.PatternFromRow(in, out, row)
}

// NewPatternSet returns an empty set for in-input, out-output patterns.
func NewPatternSet(in, out int) (*PatternSet, error) {
	return data.NewPatternSet(in, out)
}

// ReadPatternSet reads a pattern file from r.
func ReadPatternSet(r io.Reader) (*PatternSet, error) {
	return data.ReadPatternSet(r)
}

// LoadPatternSet reads the pattern file at path.
func LoadPatternSet(path string) (*PatternSet, error) {
	return data.LoadPatternSet(path)
}

// WritePatternSet writes s in pattern file format.
func WritePatternSet(w io.Writer, s *PatternSet) error {
	return data.WritePatternSet(w, s)
}

// Errors returned while building or reading pattern sets.
var (
	ErrBadHeader   = data.ErrBadHeader
	ErrPatternSize = data.ErrPatternSize
)
