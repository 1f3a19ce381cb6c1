// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linalg provides the dense float64 vectors and matrices used by
// networks and pattern sets.
//
// Zero values and results of failed operations are invalid: Valid reports
// false and Dim, Rows and Cols report -1. Element access out of range reads
// and writes nothing and returns 0.
//
//	v := linalg.VectorOf(1, 2, 3)
//	w, err := v.Scale(2)
package linalg

import (
	"io"

	"github.com/born-ml/bpnet/internal/linalg"
)

// Vector is a dense vector of float64 values.
type Vector = linalg.Vector

// Matrix is a dense row-major matrix of float64 values.
type Matrix = linalg.Matrix

// TokenReader reads whitespace-separated numbers.
type TokenReader = linalg.TokenReader

// NewVector returns a zero vector of dimension n.
func NewVector(n int) Vector {
	return linalg.NewVector(n)
}

// NewVectorFilled returns a vector of dimension n with every element set to val.
func NewVectorFilled(n int, val float64) Vector {
	return linalg.NewVectorFilled(n, val)
}

// VectorOf returns a vector holding a copy of vals.
func VectorOf(vals ...float64) Vector {
	return linalg.VectorOf(vals...)
}

// NewMatrix returns a zero rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return linalg.NewMatrix(rows, cols)
}

// NewMatrixFilled returns a rows×cols matrix with every element set to val.
func NewMatrixFilled(rows, cols int, val float64) Matrix {
	return linalg.NewMatrixFilled(rows, cols, val)
}

// MatrixOf returns a rows×cols matrix filled row-major from vals.
func MatrixOf(rows, cols int, vals []float64) (Matrix, error) {
	return linalg.MatrixOf(rows, cols, vals)
}

// NewTokenReader returns a TokenReader over r.
func NewTokenReader(r io.Reader) *TokenReader {
	return linalg.NewTokenReader(r)
}

// Errors returned by vector and matrix operations.
var (
	ErrInvalid           = linalg.ErrInvalid
	ErrDimensionMismatch = linalg.ErrDimensionMismatch
	ErrBadRange          = linalg.ErrBadRange
	ErrParse             = linalg.ErrParse
	ErrShortRead         = linalg.ErrShortRead
)
