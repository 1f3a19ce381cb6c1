package linalg

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense real matrix backed by gonum's mat.Dense.
//
// The zero value is an invalid matrix. Like Vector, copying a Matrix shares
// storage; use Clone for an independent copy.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix creates a zero-filled rows×cols matrix.
// Returns an invalid matrix if either dimension is non-positive or the
// element count exceeds what a slice can address.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 || rows > maxElements/cols {
		return Matrix{}
	}
	return Matrix{d: mat.NewDense(rows, cols, nil)}
}

// NewMatrixFilled creates a rows×cols matrix with every element set to val.
func NewMatrixFilled(rows, cols int, val float64) Matrix {
	m := NewMatrix(rows, cols)
	if !m.Valid() || val == 0 {
		return m
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.d.Set(i, j, val)
		}
	}
	return m
}

// MatrixOf creates a rows×cols matrix from row-major values. The values are
// copied.
func MatrixOf(rows, cols int, vals []float64) (Matrix, error) {
	if rows <= 0 || cols <= 0 || rows > maxElements/cols {
		return Matrix{}, ErrInvalid
	}
	if len(vals) != rows*cols {
		return Matrix{}, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimensionMismatch, len(vals), rows, cols)
	}
	data := make([]float64, len(vals))
	copy(data, vals)
	return Matrix{d: mat.NewDense(rows, cols, data)}, nil
}

// Valid reports whether the matrix has at least one element.
func (m Matrix) Valid() bool {
	return m.d != nil && !m.d.IsEmpty()
}

// Rows returns the number of rows, or -1 for an invalid matrix.
func (m Matrix) Rows() int {
	if !m.Valid() {
		return -1
	}
	r, _ := m.d.Dims()
	return r
}

// Cols returns the number of columns, or -1 for an invalid matrix.
func (m Matrix) Cols() int {
	if !m.Valid() {
		return -1
	}
	_, c := m.d.Dims()
	return c
}

func (m Matrix) inBounds(i, j int) bool {
	if !m.Valid() {
		return false
	}
	r, c := m.d.Dims()
	return i >= 0 && i < r && j >= 0 && j < c
}

// At returns the element at (i, j), or 0.0 if the index is out of range.
func (m Matrix) At(i, j int) float64 {
	if !m.inBounds(i, j) {
		return 0
	}
	return m.d.At(i, j)
}

// Set stores val at (i, j) and returns it. Out of range indexes leave the
// matrix untouched and return 0.0.
func (m Matrix) Set(i, j int, val float64) float64 {
	if !m.inBounds(i, j) {
		return 0
	}
	m.d.Set(i, j, val)
	return val
}

// Row returns a fresh vector holding row i, or an invalid vector if i is out
// of range.
func (m Matrix) Row(i int) Vector {
	if !m.inBounds(i, 0) {
		return Vector{}
	}
	return Vector{el: mat.Row(nil, i, m.d)}
}

// Col returns a fresh vector holding column j, or an invalid vector if j is
// out of range.
func (m Matrix) Col(j int) Vector {
	if !m.inBounds(0, j) {
		return Vector{}
	}
	return Vector{el: mat.Col(nil, j, m.d)}
}

// Clone returns an independent copy of the matrix.
func (m Matrix) Clone() Matrix {
	if !m.Valid() {
		return Matrix{}
	}
	return Matrix{d: mat.DenseCopyOf(m.d)}
}

// Zero sets every element to 0.0 in place.
func (m Matrix) Zero() {
	if m.Valid() {
		m.d.Zero()
	}
}

// SameShape reports whether m and o are both valid and have equal dimensions.
func (m Matrix) SameShape(o Matrix) bool {
	return m.conform(o) == nil
}

func (m Matrix) conform(o Matrix) error {
	if !m.Valid() || !o.Valid() {
		return ErrInvalid
	}
	mr, mc := m.d.Dims()
	or, oc := o.d.Dims()
	if mr != or || mc != oc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, mr, mc, or, oc)
	}
	return nil
}

// Scale returns s·m.
func (m Matrix) Scale(s float64) (Matrix, error) {
	if !m.Valid() {
		return Matrix{}, ErrInvalid
	}
	var out mat.Dense
	out.Scale(s, m.d)
	return Matrix{d: &out}, nil
}

// Add returns the elementwise sum m + o.
func (m Matrix) Add(o Matrix) (Matrix, error) {
	if err := m.conform(o); err != nil {
		return Matrix{}, err
	}
	var out mat.Dense
	out.Add(m.d, o.d)
	return Matrix{d: &out}, nil
}

// Sub returns the elementwise difference m - o.
func (m Matrix) Sub(o Matrix) (Matrix, error) {
	if err := m.conform(o); err != nil {
		return Matrix{}, err
	}
	var out mat.Dense
	out.Sub(m.d, o.d)
	return Matrix{d: &out}, nil
}

// T returns the transpose of m as a new matrix.
func (m Matrix) T() (Matrix, error) {
	if !m.Valid() {
		return Matrix{}, ErrInvalid
	}
	return Matrix{d: mat.DenseCopyOf(m.d.T())}, nil
}

// MulVec returns the matrix-vector product m·v. The number of columns of m
// must equal the dimension of v.
func (m Matrix) MulVec(v Vector) (Vector, error) {
	if !m.Valid() || !v.Valid() {
		return Vector{}, ErrInvalid
	}
	r, c := m.d.Dims()
	if c != len(v.el) {
		return Vector{}, fmt.Errorf("%w: %dx%d matrix times %d-vector", ErrDimensionMismatch, r, c, len(v.el))
	}
	out := mat.NewVecDense(r, nil)
	out.MulVec(m.d, mat.NewVecDense(c, v.el))
	return Vector{el: out.RawVector().Data}, nil
}

// Randomize replaces every element, in row-major order, with a value drawn
// uniformly from [lo, hi) using rng.
func (m Matrix) Randomize(rng *rand.Rand, lo, hi float64) {
	if !m.Valid() || rng == nil {
		return
	}
	r, c := m.d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.d.Set(i, j, rng.Float64()*(hi-lo)+lo)
		}
	}
}

// EqualApprox reports whether m and o have the same shape and all elements
// agree within tol.
func (m Matrix) EqualApprox(o Matrix, tol float64) bool {
	if m.conform(o) != nil {
		return false
	}
	return mat.EqualApprox(m.d, o.d, tol)
}
