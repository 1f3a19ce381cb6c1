package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/bpnet/internal/linalg"
)

// LayerID identifies a layer within its Network. IDs are assigned in
// creation order, starting at zero.
type LayerID int

// Role is the structural position of a layer in the cascade.
//
// Roles are never stored; they are derived from the layer's connections
// each time they are asked for.
type Role int

// Layer roles.
const (
	RoleIsolated Role = iota // no incoming and no outgoing projections
	RoleInput                // no incoming projections
	RoleHidden               // both incoming and outgoing projections
	RoleOutput               // no outgoing projections
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleHidden:
		return "hidden"
	case RoleOutput:
		return "output"
	default:
		return "isolated"
	}
}

// Layer is a group of logistic units sharing one activation range.
//
// A Layer keeps, per unit:
//   - net: net input (bias plus weighted incoming activation), kept after the
//     forward pass so the backward pass can evaluate the squash derivative
//     at the pre-squash value
//   - act: activation, squash(net) for computed layers or the loaded input
//   - delta: ∂E/∂net for the current pattern (sign convention: target − actual)
//   - bias and biasGrad: the learnable bias and its accumulated change
//
// Layers are created by Network.CreateLayer and refer to their projections by
// ID; the Network owns all of them.
type Layer struct {
	id   LayerID
	host *Network

	n      int
	lo, hi float64

	net      linalg.Vector
	act      linalg.Vector
	target   linalg.Vector // bound by reference, only meaningful on the output layer
	delta    linalg.Vector
	bias     linalg.Vector
	biasGrad linalg.Vector

	inputs  []ProjectionID
	outputs []ProjectionID
}

func newLayer(id LayerID, host *Network, n int, lo, hi float64) *Layer {
	return &Layer{
		id:       id,
		host:     host,
		n:        n,
		lo:       lo,
		hi:       hi,
		net:      linalg.NewVector(n),
		act:      linalg.NewVector(n),
		delta:    linalg.NewVector(n),
		bias:     linalg.NewVector(n),
		biasGrad: linalg.NewVector(n),
	}
}

// ID returns the layer's creation index.
func (l *Layer) ID() LayerID {
	return l.id
}

// Size returns the number of units.
func (l *Layer) Size() int {
	return l.n
}

// Range returns the activation range [lo, hi).
func (l *Layer) Range() (lo, hi float64) {
	return l.lo, l.hi
}

// SetActivationRange changes the activation range. Ranges with lo >= hi
// are ignored and ErrBadRange is returned.
func (l *Layer) SetActivationRange(lo, hi float64) error {
	if !(lo < hi) {
		return ErrBadRange
	}
	l.lo, l.hi = lo, hi
	return nil
}

// Role derives the layer's role from its connections.
func (l *Layer) Role() Role {
	switch {
	case len(l.inputs) == 0 && len(l.outputs) == 0:
		return RoleIsolated
	case len(l.inputs) == 0:
		return RoleInput
	case len(l.outputs) == 0:
		return RoleOutput
	default:
		return RoleHidden
	}
}

// Inputs returns the IDs of incoming projections in connection order.
func (l *Layer) Inputs() []ProjectionID {
	return append([]ProjectionID(nil), l.inputs...)
}

// Outputs returns the IDs of outgoing projections in connection order.
func (l *Layer) Outputs() []ProjectionID {
	return append([]ProjectionID(nil), l.outputs...)
}

// Net returns a copy of the net input vector.
func (l *Layer) Net() linalg.Vector { return l.net.Clone() }

// Activation returns a copy of the activation vector.
func (l *Layer) Activation() linalg.Vector { return l.act.Clone() }

// Target returns a copy of the loaded target, or an invalid vector if none
// has been loaded.
func (l *Layer) Target() linalg.Vector { return l.target.Clone() }

// Delta returns a copy of the unit delta vector.
func (l *Layer) Delta() linalg.Vector { return l.delta.Clone() }

// Bias returns a copy of the bias vector.
func (l *Layer) Bias() linalg.Vector { return l.bias.Clone() }

// BiasGradient returns a copy of the accumulated bias change.
func (l *Layer) BiasGradient() linalg.Vector { return l.biasGrad.Clone() }

// SetBias overwrites the bias vector with a copy of b.
func (l *Layer) SetBias(b linalg.Vector) error {
	if err := l.conform(b); err != nil {
		return err
	}
	l.bias.CopyFrom(b)
	return nil
}

func (l *Layer) conform(v linalg.Vector) error {
	if !v.Valid() {
		return linalg.ErrInvalid
	}
	if v.Dim() != l.n {
		return fmt.Errorf("%w: layer has %d units, vector has %d", linalg.ErrDimensionMismatch, l.n, v.Dim())
	}
	return nil
}

// LoadInput copies v into the activation vector, letting the layer act as the
// network input.
func (l *Layer) LoadInput(v linalg.Vector) error {
	if err := l.conform(v); err != nil {
		return err
	}
	l.act.CopyFrom(v)
	return nil
}

// LoadTarget binds the target slot to v without copying it.
func (l *Layer) LoadTarget(v linalg.Vector) error {
	if err := l.conform(v); err != nil {
		return err
	}
	l.target = v
	return nil
}

// ClearNetInputs zeroes the net input vector.
func (l *Layer) ClearNetInputs() { l.net.Zero() }

// ClearActivation zeroes the activation vector.
func (l *Layer) ClearActivation() { l.act.Zero() }

// ClearDeltas zeroes the unit delta vector.
func (l *Layer) ClearDeltas() { l.delta.Zero() }

// ComputeActivation recomputes net input and activation from the bias and
// every incoming projection:
//
//	net = bias + Σ W·act_src
//	act = squash(net, lo, hi)
//
// Layers without incoming projections keep whatever LoadInput put there.
func (l *Layer) ComputeActivation() error {
	if len(l.inputs) == 0 {
		return nil
	}

	net := l.bias.Clone()
	for _, pid := range l.inputs {
		p := l.host.projections[pid]
		contrib, err := p.weights.MulVec(l.host.layers[p.src].act)
		if err != nil {
			return fmt.Errorf("projection %d: %w", pid, err)
		}
		if net, err = net.Add(contrib); err != nil {
			return fmt.Errorf("projection %d: %w", pid, err)
		}
	}

	act, err := net.Squash(l.lo, l.hi)
	if err != nil {
		return err
	}
	l.net.CopyFrom(net)
	l.act.CopyFrom(act)
	return nil
}

// ComputeDelta computes the unit deltas for the layer's role. Layers with no
// outgoing projections compute output deltas against their target; layers
// with both incoming and outgoing projections back-propagate from their
// downstream layers; input layers are skipped.
func (l *Layer) ComputeDelta() error {
	if len(l.outputs) == 0 {
		return l.computeOutputDelta()
	}
	if len(l.inputs) != 0 {
		return l.computeHiddenDelta()
	}
	return nil
}

// computeOutputDelta sets delta_i = (target_i − act_i)·squash'(net_i).
func (l *Layer) computeOutputDelta() error {
	if !l.target.Valid() {
		return ErrNoTarget
	}
	errSignal, err := l.target.Sub(l.act)
	if err != nil {
		return err
	}
	return l.applyDerivative(errSignal)
}

// computeHiddenDelta sets delta_j = (Σ_k Σ_i delta_k[i]·W_k[i][j])·squash'(net_j)
// over every outgoing projection k. Downstream deltas must already be final.
func (l *Layer) computeHiddenDelta() error {
	back := linalg.NewVector(l.n)
	for _, pid := range l.outputs {
		p := l.host.projections[pid]
		wt, err := p.weights.T()
		if err != nil {
			return fmt.Errorf("projection %d: %w", pid, err)
		}
		contrib, err := wt.MulVec(l.host.layers[p.dst].delta)
		if err != nil {
			return fmt.Errorf("projection %d: %w", pid, err)
		}
		if back, err = back.Add(contrib); err != nil {
			return fmt.Errorf("projection %d: %w", pid, err)
		}
	}
	return l.applyDerivative(back)
}

func (l *Layer) applyDerivative(signal linalg.Vector) error {
	deriv, err := l.net.Derivative(l.lo, l.hi)
	if err != nil {
		return err
	}
	d, err := signal.MulElem(deriv)
	if err != nil {
		return err
	}
	l.delta.CopyFrom(d)
	return nil
}

// ClearBiasGradients zeroes the accumulated bias change.
func (l *Layer) ClearBiasGradients() {
	l.biasGrad.Zero()
}

// IncrementBiasGradients adds the current deltas into the accumulated bias
// change, so several patterns can be summed before one update.
func (l *Layer) IncrementBiasGradients() error {
	g, err := l.biasGrad.Add(l.delta)
	if err != nil {
		return err
	}
	l.biasGrad.CopyFrom(g)
	return nil
}

// UpdateBiases applies bias += lr·biasGrad. It is the only place biases
// change during training.
func (l *Layer) UpdateBiases(lr float64) error {
	step, err := l.biasGrad.Scale(lr)
	if err != nil {
		return err
	}
	b, err := l.bias.Add(step)
	if err != nil {
		return err
	}
	l.bias.CopyFrom(b)
	return nil
}

// RandomizeBiases draws every bias uniformly from [lo, hi).
func (l *Layer) RandomizeBiases(rng *rand.Rand, lo, hi float64) {
	l.bias.Randomize(rng, lo, hi)
}
