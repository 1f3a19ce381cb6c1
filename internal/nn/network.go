package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/bpnet/internal/linalg"
)

// Network is an ordered cascade of layers joined by projections.
//
// The Network owns every Layer and Projection it creates. Creation order is
// propagation order: ComputeActivation visits layers first to last and
// ComputeDelta visits them last to first. CreateProjection only accepts a
// source created before its destination, so the cascade is always a DAG
// consistent with that order.
//
// Example:
//
//	net := nn.NewNetwork()
//	in, _ := net.CreateLayer(2)
//	hid, _ := net.CreateLayer(2)
//	out, _ := net.CreateLayer(1)
//	net.CreateProjection(in, hid)
//	net.CreateProjection(hid, out)
type Network struct {
	layers      []*Layer
	projections []*Projection
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{}
}

// CreateLayer appends a layer of n units with activation range [0, 1).
func (net *Network) CreateLayer(n int) (*Layer, error) {
	return net.CreateLayerRange(n, 0, 1)
}

// CreateLayerRange appends a layer of n units with activation range
// [lo, hi).
func (net *Network) CreateLayerRange(n int, lo, hi float64) (*Layer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	if !(lo < hi) {
		return nil, fmt.Errorf("%w: [%g, %g)", ErrBadRange, lo, hi)
	}
	l := newLayer(LayerID(len(net.layers)), net, n, lo, hi)
	net.layers = append(net.layers, l)
	return l, nil
}

// CreateProjection fully connects src to dst with zero weights.
func (net *Network) CreateProjection(src, dst *Layer) (*Projection, error) {
	if err := net.checkEndpoints(src, dst); err != nil {
		return nil, err
	}
	return net.addProjection(src, dst, linalg.NewMatrix(dst.n, src.n)), nil
}

// AddProjection connects src to dst using a copy of weights, which must be
// shaped dst.Size() × src.Size().
func (net *Network) AddProjection(src, dst *Layer, weights linalg.Matrix) (*Projection, error) {
	if err := net.checkEndpoints(src, dst); err != nil {
		return nil, err
	}
	if !weights.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrConnectionMismatch, linalg.ErrInvalid)
	}
	if weights.Rows() != dst.n || weights.Cols() != src.n {
		return nil, fmt.Errorf("%w: want %dx%d, got %dx%d",
			ErrConnectionMismatch, dst.n, src.n, weights.Rows(), weights.Cols())
	}
	return net.addProjection(src, dst, weights.Clone()), nil
}

func (net *Network) checkEndpoints(src, dst *Layer) error {
	if src == nil || dst == nil || src.host != net || dst.host != net {
		return ErrUnknownLayer
	}
	if src.id >= dst.id {
		return fmt.Errorf("%w: layer %d -> layer %d", ErrBackwardProjection, src.id, dst.id)
	}
	return nil
}

func (net *Network) addProjection(src, dst *Layer, weights linalg.Matrix) *Projection {
	p := &Projection{
		id:      ProjectionID(len(net.projections)),
		host:    net,
		src:     src.id,
		dst:     dst.id,
		weights: weights,
		grad:    linalg.NewMatrix(dst.n, src.n),
	}
	net.projections = append(net.projections, p)
	src.outputs = append(src.outputs, p.id)
	dst.inputs = append(dst.inputs, p.id)
	return p
}

// Layers returns the layers in creation order.
func (net *Network) Layers() []*Layer {
	return append([]*Layer(nil), net.layers...)
}

// Layer returns the layer with the given ID, or nil.
func (net *Network) Layer(id LayerID) *Layer {
	if id < 0 || int(id) >= len(net.layers) {
		return nil
	}
	return net.layers[id]
}

// Projections returns the projections in creation order.
func (net *Network) Projections() []*Projection {
	return append([]*Projection(nil), net.projections...)
}

// Projection returns the projection with the given ID, or nil.
func (net *Network) Projection(id ProjectionID) *Projection {
	if id < 0 || int(id) >= len(net.projections) {
		return nil
	}
	return net.projections[id]
}

// InputLayer returns the first layer with no incoming projections.
func (net *Network) InputLayer() (*Layer, error) {
	for _, l := range net.layers {
		if len(l.inputs) == 0 {
			return l, nil
		}
	}
	return nil, ErrNoInputLayer
}

// OutputLayer returns the last layer with no outgoing projections.
func (net *Network) OutputLayer() (*Layer, error) {
	for i := len(net.layers) - 1; i >= 0; i-- {
		if len(net.layers[i].outputs) == 0 {
			return net.layers[i], nil
		}
	}
	return nil, ErrNoOutputLayer
}

// ComputeActivation runs the forward pass over every layer in creation order.
func (net *Network) ComputeActivation() error {
	for _, l := range net.layers {
		if err := l.ComputeActivation(); err != nil {
			return &LayerError{Layer: l.id, Op: "activation", Err: err}
		}
	}
	return nil
}

// ComputeDelta runs the backward pass over every layer in reverse creation
// order, so each hidden layer sees final downstream deltas.
func (net *Network) ComputeDelta() error {
	for i := len(net.layers) - 1; i >= 0; i-- {
		l := net.layers[i]
		if len(l.inputs) == 0 {
			continue
		}
		if err := l.ComputeDelta(); err != nil {
			return &LayerError{Layer: l.id, Op: "delta", Err: err}
		}
	}
	return nil
}

// ClearGradients zeroes every bias and weight accumulator.
func (net *Network) ClearGradients() {
	for _, l := range net.layers {
		l.ClearBiasGradients()
	}
	for _, p := range net.projections {
		p.ClearGradients()
	}
}

// IncrementGradients adds the current pattern's contribution to every bias
// and weight accumulator. Call it after ComputeDelta.
func (net *Network) IncrementGradients() error {
	for _, l := range net.layers {
		if err := l.IncrementBiasGradients(); err != nil {
			return &LayerError{Layer: l.id, Op: "bias gradient", Err: err}
		}
	}
	for _, p := range net.projections {
		if err := p.IncrementGradients(); err != nil {
			return fmt.Errorf("nn: projection %d: gradient: %w", p.id, err)
		}
	}
	return nil
}

// UpdateWeights applies the accumulated changes scaled by lr to every bias
// and weight.
func (net *Network) UpdateWeights(lr float64) error {
	for _, l := range net.layers {
		if err := l.UpdateBiases(lr); err != nil {
			return &LayerError{Layer: l.id, Op: "bias update", Err: err}
		}
	}
	for _, p := range net.projections {
		if err := p.UpdateWeights(lr); err != nil {
			return fmt.Errorf("nn: projection %d: update: %w", p.id, err)
		}
	}
	return nil
}

// RandomizeWeights draws every bias and weight uniformly from [lo, hi) using
// rng. Layers are visited in creation order; each draws its biases, then the
// weights of its incoming projections in connection order, row by row. A
// fixed seed therefore reproduces the same network.
func (net *Network) RandomizeWeights(rng *rand.Rand, lo, hi float64) {
	for _, l := range net.layers {
		l.RandomizeBiases(rng, lo, hi)
		for _, pid := range l.inputs {
			net.projections[pid].RandomizeWeights(rng, lo, hi)
		}
	}
}

// NumParameters returns the number of biases and weights in the network.
func (net *Network) NumParameters() int {
	total := 0
	for _, l := range net.layers {
		total += l.n
	}
	for _, p := range net.projections {
		total += p.weights.Rows() * p.weights.Cols()
	}
	return total
}
