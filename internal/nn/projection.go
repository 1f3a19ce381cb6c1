package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/bpnet/internal/linalg"
)

// ProjectionID identifies a projection within its Network. IDs are assigned
// in creation order, starting at zero.
type ProjectionID int

// Projection is a full connection from a source layer to a destination layer.
//
// The weight matrix has destination-size rows and source-size columns, so
// W[i][j] is the weight from source unit j to destination unit i. The
// gradient matrix has the same shape and accumulates the per-pattern
// changes δ_dst ⊗ act_src until UpdateWeights folds them in.
type Projection struct {
	id   ProjectionID
	host *Network

	src, dst LayerID

	weights linalg.Matrix
	grad    linalg.Matrix
}

// ID returns the projection's creation index.
func (p *Projection) ID() ProjectionID {
	return p.id
}

// Source returns the ID of the layer the projection reads from.
func (p *Projection) Source() LayerID {
	return p.src
}

// Destination returns the ID of the layer the projection feeds.
func (p *Projection) Destination() LayerID {
	return p.dst
}

// InputSize returns the number of source units (weight columns).
func (p *Projection) InputSize() int {
	return p.weights.Cols()
}

// OutputSize returns the number of destination units (weight rows).
func (p *Projection) OutputSize() int {
	return p.weights.Rows()
}

// Weights returns a copy of the weight matrix.
func (p *Projection) Weights() linalg.Matrix {
	return p.weights.Clone()
}

// Gradient returns a copy of the accumulated weight change.
func (p *Projection) Gradient() linalg.Matrix {
	return p.grad.Clone()
}

// SetWeights replaces the weight matrix with a copy of w. The shape must
// match the connected layers.
func (p *Projection) SetWeights(w linalg.Matrix) error {
	if !w.Valid() {
		return linalg.ErrInvalid
	}
	if !w.SameShape(p.weights) {
		return fmt.Errorf("%w: want %dx%d, got %dx%d",
			ErrConnectionMismatch, p.weights.Rows(), p.weights.Cols(), w.Rows(), w.Cols())
	}
	p.weights = w.Clone()
	return nil
}

// ClearGradients zeroes the accumulated weight change.
func (p *Projection) ClearGradients() {
	p.grad.Zero()
}

// IncrementGradients adds δ_dst ⊗ act_src for the current pattern into the
// accumulated weight change. The destination deltas must be up to date.
func (p *Projection) IncrementGradients() error {
	src := p.host.layers[p.src]
	dst := p.host.layers[p.dst]

	outer, err := dst.delta.Outer(src.act)
	if err != nil {
		return err
	}
	g, err := p.grad.Add(outer)
	if err != nil {
		return err
	}
	p.grad = g
	return nil
}

// UpdateWeights applies W += lr·ΔW.
func (p *Projection) UpdateWeights(lr float64) error {
	step, err := p.grad.Scale(lr)
	if err != nil {
		return err
	}
	w, err := p.weights.Add(step)
	if err != nil {
		return err
	}
	p.weights = w
	return nil
}

// RandomizeWeights draws every weight uniformly from [lo, hi), row by row.
func (p *Projection) RandomizeWeights(rng *rand.Rand, lo, hi float64) {
	p.weights.Randomize(rng, lo, hi)
}
