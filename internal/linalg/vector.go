// Package linalg implements the dense real vectors and matrices used by the
// backpropagation engine.
//
// Both types follow the same error contract:
//   - Arithmetic never mutates its operands and always returns a freshly
//     allocated result together with an error.
//   - On failure the result is the zero value, which is itself invalid
//     (Valid reports false, Dim/Rows/Cols report -1), so invalidity propagates
//     even if a caller forgets to look at the error.
//   - Element access outside the bounds is a silent no-op returning 0.0.
//
// Nothing in this package panics on user supplied operands.
//
// Storage and the heavy kernels come from gonum: floats for vector arithmetic
// and mat.Dense for matrices.
package linalg

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vector is a dense real vector.
//
// The zero value is an invalid vector. Copying a Vector shares its storage,
// so Set through a copy is visible through the original; use Clone for an
// independent copy.
type Vector struct {
	el []float64
}

// maxElements is the largest element count whose float64 storage size still
// fits in an int.
const maxElements = math.MaxInt / 8

// NewVector creates a zero-filled vector of dimension n.
// Returns an invalid vector if n <= 0.
func NewVector(n int) Vector {
	return NewVectorFilled(n, 0)
}

// NewVectorFilled creates a vector of dimension n with every element set to val.
// Returns an invalid vector if n <= 0 or n elements could not be addressed.
func NewVectorFilled(n int, val float64) Vector {
	if n <= 0 || n > maxElements {
		return Vector{}
	}
	el := make([]float64, n)
	if val != 0 {
		for i := range el {
			el[i] = val
		}
	}
	return Vector{el: el}
}

// VectorOf creates a vector holding a copy of vals.
// Returns an invalid vector if vals is empty.
func VectorOf(vals ...float64) Vector {
	if len(vals) == 0 {
		return Vector{}
	}
	el := make([]float64, len(vals))
	copy(el, vals)
	return Vector{el: el}
}

// Dim returns the dimensionality of the vector, or -1 if it is invalid.
func (v Vector) Dim() int {
	if len(v.el) == 0 {
		return -1
	}
	return len(v.el)
}

// Valid reports whether the vector has at least one element.
func (v Vector) Valid() bool {
	return len(v.el) > 0
}

// Get returns the element at i, or 0.0 if i is out of range.
func (v Vector) Get(i int) float64 {
	if i < 0 || i >= len(v.el) {
		return 0
	}
	return v.el[i]
}

// Set stores val at i and returns it. Out of range indexes leave the vector
// untouched and return 0.0.
func (v Vector) Set(i int, val float64) float64 {
	if i < 0 || i >= len(v.el) {
		return 0
	}
	v.el[i] = val
	return val
}

// Values returns a copy of the elements, or nil for an invalid vector.
func (v Vector) Values() []float64 {
	if !v.Valid() {
		return nil
	}
	out := make([]float64, len(v.el))
	copy(out, v.el)
	return out
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	return VectorOf(v.el...)
}

// CopyFrom makes v a copy of src, reusing v's storage when the dimensions
// already agree. Copying an invalid vector invalidates v.
func (v *Vector) CopyFrom(src Vector) {
	if len(v.el) != len(src.el) {
		v.Resize(len(src.el))
	}
	copy(v.el, src.el)
}

// Resize changes the dimensionality of v, keeping the leading elements that
// still fit. A non-positive or unaddressable size invalidates the vector.
func (v *Vector) Resize(n int) {
	if n <= 0 || n > maxElements {
		v.el = nil
		return
	}
	el := make([]float64, n)
	copy(el, v.el)
	v.el = el
}

// Zero sets every element to 0.0 in place.
func (v Vector) Zero() {
	for i := range v.el {
		v.el[i] = 0
	}
}

// conform checks that both operands are valid and of equal dimension.
func (v Vector) conform(w Vector) error {
	if !v.Valid() || !w.Valid() {
		return ErrInvalid
	}
	if len(v.el) != len(w.el) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v.el), len(w.el))
	}
	return nil
}

// Scale returns s·v.
func (v Vector) Scale(s float64) (Vector, error) {
	if !v.Valid() {
		return Vector{}, ErrInvalid
	}
	out := make([]float64, len(v.el))
	floats.ScaleTo(out, s, v.el)
	return Vector{el: out}, nil
}

// Add returns the elementwise sum v + w.
func (v Vector) Add(w Vector) (Vector, error) {
	if err := v.conform(w); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.el))
	floats.AddTo(out, v.el, w.el)
	return Vector{el: out}, nil
}

// Sub returns the elementwise difference v - w.
func (v Vector) Sub(w Vector) (Vector, error) {
	if err := v.conform(w); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.el))
	floats.SubTo(out, v.el, w.el)
	return Vector{el: out}, nil
}

// MulElem returns the elementwise (Hadamard) product of v and w.
func (v Vector) MulElem(w Vector) (Vector, error) {
	if err := v.conform(w); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.el))
	floats.MulTo(out, v.el, w.el)
	return Vector{el: out}, nil
}

// SumOfElements returns the sum of all elements, or 0.0 for an invalid vector.
func (v Vector) SumOfElements() float64 {
	if !v.Valid() {
		return 0
	}
	return floats.Sum(v.el)
}

// Dot returns the inner product of v and w.
func (v Vector) Dot(w Vector) (float64, error) {
	if err := v.conform(w); err != nil {
		return 0, err
	}
	return floats.Dot(v.el, w.el), nil
}

// Outer returns the outer product v ⊗ w, a Dim(v)×Dim(w) matrix whose
// element (i, j) is v[i]·w[j].
func (v Vector) Outer(w Vector) (Matrix, error) {
	if !v.Valid() || !w.Valid() {
		return Matrix{}, ErrInvalid
	}
	d := mat.NewDense(len(v.el), len(w.el), nil)
	d.Outer(1, mat.NewVecDense(len(v.el), v.el), mat.NewVecDense(len(w.el), w.el))
	return Matrix{d: d}, nil
}

// SquaredError returns half the summed squared deviation between v and target:
//
//	E = ½·Σ(v[i] − target[i])²
func (v Vector) SquaredError(target Vector) (float64, error) {
	dev, err := v.Sub(target)
	if err != nil {
		return 0, err
	}
	sq, err := dev.Dot(dev)
	if err != nil {
		return 0, err
	}
	return 0.5 * sq, nil
}

// Squash applies the logistic sigmoid to every element and rescales the
// result into [lo, hi):
//
//	out = σ(x)·(hi − lo) + lo,  σ(x) = 1 / (1 + e^−x)
func (v Vector) Squash(lo, hi float64) (Vector, error) {
	if !v.Valid() {
		return Vector{}, ErrInvalid
	}
	if !(lo < hi) {
		return Vector{}, ErrBadRange
	}
	out := make([]float64, len(v.el))
	for i, x := range v.el {
		out[i] = logistic(x)*(hi-lo) + lo
	}
	return Vector{el: out}, nil
}

// Derivative applies the derivative of the logistic sigmoid to every element,
// scaled by the width of the activation range (but not shifted by lo):
//
//	out = σ(x)·(1 − σ(x))·(hi − lo)
//
// The elements of v must be pre-squash net inputs.
func (v Vector) Derivative(lo, hi float64) (Vector, error) {
	if !v.Valid() {
		return Vector{}, ErrInvalid
	}
	if !(lo < hi) {
		return Vector{}, ErrBadRange
	}
	out := make([]float64, len(v.el))
	for i, x := range v.el {
		s := logistic(x)
		out[i] = s * (1 - s) * (hi - lo)
	}
	return Vector{el: out}, nil
}

// logistic is 1/(1+e^-x), evaluated so that neither branch overflows.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Randomize replaces every element with a value drawn uniformly from
// [lo, hi) using rng. Invalid vectors and a nil rng leave v untouched.
func (v Vector) Randomize(rng *rand.Rand, lo, hi float64) {
	if rng == nil {
		return
	}
	for i := range v.el {
		v.el[i] = rng.Float64()*(hi-lo) + lo
	}
}

// EqualApprox reports whether v and w have the same dimension and all
// elements agree within tol.
func (v Vector) EqualApprox(w Vector, tol float64) bool {
	if v.conform(w) != nil {
		return false
	}
	return floats.EqualApprox(v.el, w.el, tol)
}

// String formats the elements with %f separated by single spaces.
// This is the human readable form used by testing reports, not a lossless
// encoding; see WriteTo for that.
func (v Vector) String() string {
	if !v.Valid() {
		return "<invalid>"
	}
	var b strings.Builder
	for i, x := range v.el {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%f", x)
	}
	return b.String()
}
