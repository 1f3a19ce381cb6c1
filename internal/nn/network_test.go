package nn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/bpnet/internal/linalg"
)

// chain builds a fully connected cascade with the given layer sizes.
func chain(t *testing.T, sizes ...int) (*Network, []*Layer) {
	t.Helper()
	net := NewNetwork()
	layers := make([]*Layer, len(sizes))
	for i, n := range sizes {
		l, err := net.CreateLayer(n)
		require.NoError(t, err)
		layers[i] = l
		if i > 0 {
			_, err := net.CreateProjection(layers[i-1], l)
			require.NoError(t, err)
		}
	}
	return net, layers
}

// flatten returns every bias followed by every weight, in network order.
func flatten(net *Network) []float64 {
	var x []float64
	for _, l := range net.Layers() {
		x = append(x, l.Bias().Values()...)
	}
	for _, p := range net.Projections() {
		w := p.Weights()
		for i := 0; i < w.Rows(); i++ {
			x = append(x, w.Row(i).Values()...)
		}
	}
	return x
}

// flattenGradients mirrors flatten for the accumulated changes.
func flattenGradients(net *Network) []float64 {
	var x []float64
	for _, l := range net.Layers() {
		x = append(x, l.BiasGradient().Values()...)
	}
	for _, p := range net.Projections() {
		g := p.Gradient()
		for i := 0; i < g.Rows(); i++ {
			x = append(x, g.Row(i).Values()...)
		}
	}
	return x
}

func restore(t *testing.T, net *Network, x []float64) {
	t.Helper()
	k := 0
	for _, l := range net.Layers() {
		require.NoError(t, l.SetBias(linalg.VectorOf(x[k:k+l.Size()]...)))
		k += l.Size()
	}
	for _, p := range net.Projections() {
		n := p.OutputSize() * p.InputSize()
		w, err := linalg.MatrixOf(p.OutputSize(), p.InputSize(), x[k:k+n])
		require.NoError(t, err)
		require.NoError(t, p.SetWeights(w))
		k += n
	}
	require.Equal(t, len(x), k)
}

// patternError runs one forward pass and returns the output squared error.
func patternError(t *testing.T, net *Network, in, target linalg.Vector) float64 {
	t.Helper()
	input, err := net.InputLayer()
	require.NoError(t, err)
	output, err := net.OutputLayer()
	require.NoError(t, err)

	require.NoError(t, input.LoadInput(in))
	require.NoError(t, output.LoadTarget(target))
	require.NoError(t, net.ComputeActivation())

	e, err := output.Activation().SquaredError(target)
	require.NoError(t, err)
	return e
}

func accumulate(t *testing.T, net *Network, in, target linalg.Vector) {
	t.Helper()
	patternError(t, net, in, target)
	require.NoError(t, net.ComputeDelta())
	require.NoError(t, net.IncrementGradients())
}

func checkGradient(t *testing.T, net *Network, in, target linalg.Vector) {
	t.Helper()

	x0 := flatten(net)
	numeric := fd.Gradient(nil, func(x []float64) float64 {
		restore(t, net, x)
		return patternError(t, net, in, target)
	}, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	restore(t, net, x0)

	net.ClearGradients()
	accumulate(t, net, in, target)
	analytic := flattenGradients(net)

	require.Len(t, analytic, len(numeric))
	for i := range numeric {
		// Accumulated changes point downhill: ΔW = −∂E/∂W.
		assert.InDelta(t, -numeric[i], analytic[i], 1e-4, "parameter %d", i)
	}
}

func TestGradientCheck221(t *testing.T) {
	net, _ := chain(t, 2, 2, 1)
	net.RandomizeWeights(rand.New(rand.NewSource(42)), -1, 1)

	checkGradient(t, net, linalg.VectorOf(0.3, 0.9), linalg.VectorOf(0.2))
	checkGradient(t, net, linalg.VectorOf(1, 0), linalg.VectorOf(1))
}

func TestGradientCheckDeepAndWideRange(t *testing.T) {
	net := NewNetwork()
	in, err := net.CreateLayer(3)
	require.NoError(t, err)
	h1, err := net.CreateLayerRange(4, -1, 1)
	require.NoError(t, err)
	h2, err := net.CreateLayerRange(3, -0.5, 1.5)
	require.NoError(t, err)
	out, err := net.CreateLayer(2)
	require.NoError(t, err)

	for _, pair := range [][2]*Layer{{in, h1}, {h1, h2}, {h2, out}, {in, h2}, {h1, out}} {
		_, err := net.CreateProjection(pair[0], pair[1])
		require.NoError(t, err)
	}
	assert.Equal(t, RoleHidden, h1.Role())
	assert.Equal(t, RoleHidden, h2.Role())

	net.RandomizeWeights(rand.New(rand.NewSource(7)), -0.8, 0.8)
	checkGradient(t, net, linalg.VectorOf(0.1, -0.4, 0.7), linalg.VectorOf(0.9, 0.05))
}

func TestBatchAccumulationIsSum(t *testing.T) {
	net, _ := chain(t, 2, 3, 2)
	net.RandomizeWeights(rand.New(rand.NewSource(3)), -0.5, 0.5)

	a := [2]linalg.Vector{linalg.VectorOf(0, 1), linalg.VectorOf(1, 0)}
	b := [2]linalg.Vector{linalg.VectorOf(1, 1), linalg.VectorOf(0, 0)}

	net.ClearGradients()
	accumulate(t, net, a[0], a[1])
	ga := flattenGradients(net)

	net.ClearGradients()
	accumulate(t, net, b[0], b[1])
	gb := flattenGradients(net)

	net.ClearGradients()
	accumulate(t, net, a[0], a[1])
	accumulate(t, net, b[0], b[1])
	both := flattenGradients(net)

	for i := range both {
		assert.InDelta(t, ga[i]+gb[i], both[i], 1e-12, "parameter %d", i)
	}

	// Accumulation alone never touches the weights.
	before := flatten(net)
	accumulate(t, net, a[0], a[1])
	assert.Equal(t, before, flatten(net))
}

func TestUpdateWeights(t *testing.T) {
	net, _ := chain(t, 2, 2, 1)
	net.RandomizeWeights(rand.New(rand.NewSource(11)), -1, 1)

	net.ClearGradients()
	accumulate(t, net, linalg.VectorOf(1, 1), linalg.VectorOf(0))

	before := flatten(net)
	grad := flattenGradients(net)
	require.NoError(t, net.UpdateWeights(0.5))
	after := flatten(net)

	for i := range before {
		assert.InDelta(t, before[i]+0.5*grad[i], after[i], 1e-15, "parameter %d", i)
	}
}

func TestTrainingStepReducesError(t *testing.T) {
	net, _ := chain(t, 2, 2, 1)
	net.RandomizeWeights(rand.New(rand.NewSource(5)), -0.5, 0.5)
	in, target := linalg.VectorOf(1, 0), linalg.VectorOf(1)

	prev := patternError(t, net, in, target)
	for i := 0; i < 20; i++ {
		net.ClearGradients()
		accumulate(t, net, in, target)
		require.NoError(t, net.UpdateWeights(0.5))
		e := patternError(t, net, in, target)
		assert.Less(t, e, prev, "step %d", i)
		prev = e
	}
}

func TestForwardDeterminism(t *testing.T) {
	net, layers := chain(t, 3, 4, 2)
	net.RandomizeWeights(rand.New(rand.NewSource(9)), -1, 1)
	require.NoError(t, layers[0].LoadInput(linalg.VectorOf(0.2, 0.4, 0.6)))

	require.NoError(t, net.ComputeActivation())
	first := layers[2].Activation().Values()
	for i := 0; i < 5; i++ {
		require.NoError(t, net.ComputeActivation())
		assert.Equal(t, first, layers[2].Activation().Values())
	}
}

func TestRandomizeWeightsSeeded(t *testing.T) {
	a, _ := chain(t, 2, 3, 1)
	b, _ := chain(t, 2, 3, 1)
	a.RandomizeWeights(rand.New(rand.NewSource(1)), -0.5, 0.5)
	b.RandomizeWeights(rand.New(rand.NewSource(1)), -0.5, 0.5)

	x := flatten(a)
	assert.Equal(t, x, flatten(b))
	for _, v := range x {
		assert.GreaterOrEqual(t, v, -0.5)
		assert.Less(t, v, 0.5)
	}
	assert.Equal(t, 2+3+1+3*2+1*3, a.NumParameters())
}

func TestRandomizeWeightsDrawOrder(t *testing.T) {
	net, layers := chain(t, 2, 2, 1)
	net.RandomizeWeights(rand.New(rand.NewSource(7)), -1, 1)

	rng := rand.New(rand.NewSource(7))
	draw := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = rng.Float64()*2 - 1
		}
		return out
	}

	rows := func(m linalg.Matrix) []float64 {
		var x []float64
		for i := 0; i < m.Rows(); i++ {
			x = append(x, m.Row(i).Values()...)
		}
		return x
	}

	// Each layer draws its biases, then its incoming weights row by row.
	assert.Equal(t, draw(2), layers[0].Bias().Values())
	assert.Equal(t, draw(2), layers[1].Bias().Values())
	assert.Equal(t, draw(4), rows(net.Projection(0).Weights()))
	assert.Equal(t, draw(1), layers[2].Bias().Values())
	assert.Equal(t, draw(2), rows(net.Projection(1).Weights()))
}

func TestInputOutputLayers(t *testing.T) {
	net := NewNetwork()
	_, err := net.InputLayer()
	assert.ErrorIs(t, err, ErrNoInputLayer)
	_, err = net.OutputLayer()
	assert.ErrorIs(t, err, ErrNoOutputLayer)

	net, layers := chain(t, 2, 2, 1)
	in, err := net.InputLayer()
	require.NoError(t, err)
	out, err := net.OutputLayer()
	require.NoError(t, err)
	assert.Same(t, layers[0], in)
	assert.Same(t, layers[2], out)

	assert.Equal(t, RoleInput, layers[0].Role())
	assert.Equal(t, RoleHidden, layers[1].Role())
	assert.Equal(t, RoleOutput, layers[2].Role())
	assert.Equal(t, "hidden", layers[1].Role().String())

	assert.Same(t, layers[1], net.Layer(1))
	assert.Nil(t, net.Layer(3))
	assert.Nil(t, net.Projection(-1))
	assert.Len(t, net.Projections(), 2)
}

func TestCreateErrors(t *testing.T) {
	net := NewNetwork()

	_, err := net.CreateLayer(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = net.CreateLayerRange(2, 1, 1)
	assert.ErrorIs(t, err, ErrBadRange)
	assert.Empty(t, net.Layers())

	a, err := net.CreateLayer(2)
	require.NoError(t, err)
	b, err := net.CreateLayer(3)
	require.NoError(t, err)

	_, err = net.CreateProjection(b, a)
	assert.ErrorIs(t, err, ErrBackwardProjection)
	_, err = net.CreateProjection(a, a)
	assert.ErrorIs(t, err, ErrBackwardProjection)

	other, _ := chain(t, 2)
	_, err = net.CreateProjection(other.Layer(0), b)
	assert.ErrorIs(t, err, ErrUnknownLayer)
	_, err = net.CreateProjection(nil, b)
	assert.ErrorIs(t, err, ErrUnknownLayer)

	_, err = net.AddProjection(a, b, linalg.NewMatrix(2, 3))
	assert.ErrorIs(t, err, ErrConnectionMismatch)
	_, err = net.AddProjection(a, b, linalg.Matrix{})
	assert.ErrorIs(t, err, ErrConnectionMismatch)
	assert.Empty(t, net.Projections(), "failed connections must not be recorded")
	assert.Equal(t, RoleIsolated, a.Role())

	w := linalg.NewMatrixFilled(3, 2, 0.5)
	p, err := net.AddProjection(a, b, w)
	require.NoError(t, err)
	assert.Equal(t, 2, p.InputSize())
	assert.Equal(t, 3, p.OutputSize())
	assert.Equal(t, a.ID(), p.Source())
	assert.Equal(t, b.ID(), p.Destination())
	assert.Equal(t, []ProjectionID{p.ID()}, a.Outputs())
	assert.Equal(t, []ProjectionID{p.ID()}, b.Inputs())

	w.Set(0, 0, 9)
	assert.Equal(t, 0.5, p.Weights().At(0, 0), "preset weights are copied")

	err = p.SetWeights(linalg.NewMatrix(2, 3))
	assert.ErrorIs(t, err, ErrConnectionMismatch)
}

func TestComputeDeltaWithoutTarget(t *testing.T) {
	net, layers := chain(t, 2, 1)
	require.NoError(t, layers[0].LoadInput(linalg.VectorOf(1, 1)))
	require.NoError(t, net.ComputeActivation())

	err := net.ComputeDelta()
	require.ErrorIs(t, err, ErrNoTarget)

	var le *LayerError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LayerID(1), le.Layer)
	assert.Equal(t, "delta", le.Op)
}
