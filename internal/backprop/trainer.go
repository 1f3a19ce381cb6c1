// Package backprop trains an nn.Network with full-batch error backpropagation.
package backprop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/born-ml/bpnet/internal/data"
	"github.com/born-ml/bpnet/internal/linalg"
	"github.com/born-ml/bpnet/internal/nn"
)

// Trainer drives one Network through training and testing epochs.
//
// Build the topology through Network(), attach pattern sets, then call
// InitNetwork once the topology is final. Each RunTrainingEpoch presents every
// training pattern once, accumulates the weight changes and applies them in a
// single update at the end of the epoch.
//
// Example:
//
//	tr := backprop.New(backprop.DefaultConfig())
//	in, _ := tr.Network().CreateLayer(2)
//	hid, _ := tr.Network().CreateLayer(2)
//	out, _ := tr.Network().CreateLayer(1)
//	tr.Network().CreateProjection(in, hid)
//	tr.Network().CreateProjection(hid, out)
//	tr.SetTrainingPatterns(xor)
//	if err := tr.InitNetwork(); err != nil {
//	    return err
//	}
//	sse, err := tr.RunTrainingEpoch()
//
// A Trainer is not safe for concurrent use.
type Trainer struct {
	net   *nn.Network
	train *data.PatternSet
	test  *data.PatternSet

	input  *nn.Layer
	output *nn.Layer

	lr       float64
	wtRange  float64
	epochs   int
	rng      *rand.Rand
	logger   *slog.Logger
	readyNet bool
}

// New returns a Trainer with an empty network.
func New(cfg Config) *Trainer {
	cfg = cfg.withDefaults()
	return &Trainer{
		net:     nn.NewNetwork(),
		lr:      cfg.LearningRate,
		wtRange: cfg.InitialWeightRange,
		rng:     cfg.newRand(),
		logger:  cfg.Logger,
	}
}

// Network returns the network being trained.
func (t *Trainer) Network() *nn.Network {
	return t.net
}

// LearningRate returns the learning rate.
func (t *Trainer) LearningRate() float64 {
	return t.lr
}

// SetLearningRate sets the learning rate. Non-positive values are ignored.
// It returns the learning rate in force afterwards.
func (t *Trainer) SetLearningRate(lr float64) float64 {
	if lr > 0 {
		t.lr = lr
	}
	return t.lr
}

// InitialWeightRange returns the width of the initial weight range.
func (t *Trainer) InitialWeightRange() float64 {
	return t.wtRange
}

// SetInitialWeightRange sets the width of the initial weight range.
// Non-positive values are ignored. It returns the width in force afterwards.
func (t *Trainer) SetInitialWeightRange(r float64) float64 {
	if r > 0 {
		t.wtRange = r
	}
	return t.wtRange
}

// TrainingPatterns returns the training set, or nil.
func (t *Trainer) TrainingPatterns() *data.PatternSet { return t.train }

// SetTrainingPatterns replaces the training set.
func (t *Trainer) SetTrainingPatterns(s *data.PatternSet) { t.train = s }

// TestingPatterns returns the testing set, or nil.
func (t *Trainer) TestingPatterns() *data.PatternSet { return t.test }

// SetTestingPatterns replaces the testing set.
func (t *Trainer) SetTestingPatterns(s *data.PatternSet) { t.test = s }

// ReadTrainingPatterns loads the training set from a pattern file. The
// previous set is kept if reading fails.
func (t *Trainer) ReadTrainingPatterns(path string) error {
	s, err := data.LoadPatternSet(path)
	if err != nil {
		return err
	}
	t.train = s
	return nil
}

// ReadTestingPatterns loads the testing set from a pattern file. The previous
// set is kept if reading fails.
func (t *Trainer) ReadTestingPatterns(path string) error {
	s, err := data.LoadPatternSet(path)
	if err != nil {
		return err
	}
	t.test = s
	return nil
}

// InputLayer returns the layer found by InitNetwork, or nil before it.
func (t *Trainer) InputLayer() *nn.Layer { return t.input }

// OutputLayer returns the layer found by InitNetwork, or nil before it.
func (t *Trainer) OutputLayer() *nn.Layer { return t.output }

// Epochs returns the number of training epochs completed since InitNetwork.
func (t *Trainer) Epochs() int { return t.epochs }

// InitNetwork locates the input and output layers, draws every weight and
// bias uniformly from [-range/2, range/2) and resets the epoch counter.
func (t *Trainer) InitNetwork() error {
	in, err := t.net.InputLayer()
	if err != nil {
		return err
	}
	out, err := t.net.OutputLayer()
	if err != nil {
		return err
	}

	t.input, t.output = in, out
	half := 0.5 * t.wtRange
	t.net.RandomizeWeights(t.rng, -half, half)
	t.epochs = 0
	t.readyNet = true

	t.logger.Info("network initialized",
		"layers", len(t.net.Layers()),
		"inputs", in.Size(),
		"outputs", out.Size(),
		"parameters", t.net.NumParameters(),
		"weight_range", t.wtRange)
	return nil
}

func (t *Trainer) ready(s *data.PatternSet) error {
	if !t.readyNet {
		return ErrNotInitialized
	}
	if s == nil || s.Len() == 0 {
		return ErrNoPatterns
	}
	return nil
}

// present loads p and runs the forward pass, returning the pattern's
// squared error.
func (t *Trainer) present(p data.Pattern) (float64, error) {
	if err := t.input.LoadInput(p.Input); err != nil {
		return 0, fmt.Errorf("load input: %w", err)
	}
	if err := t.output.LoadTarget(p.Target); err != nil {
		return 0, fmt.Errorf("load target: %w", err)
	}
	if err := t.net.ComputeActivation(); err != nil {
		return 0, err
	}
	return t.output.Activation().SquaredError(p.Target)
}

// RunTrainingEpoch presents every training pattern once in order, then
// applies the summed weight changes scaled by the learning rate. It returns
// the sum of squared errors over the epoch, measured before the update.
//
// On error it returns 0, applies no update and leaves the epoch counter
// unchanged.
func (t *Trainer) RunTrainingEpoch() (float64, error) {
	if err := t.ready(t.train); err != nil {
		return 0, err
	}

	t.net.ClearGradients()
	total := 0.0
	for i, p := range t.train.Patterns() {
		sse, err := t.present(p)
		if err != nil {
			return 0, fmt.Errorf("%w: training pattern %d: %w", ErrEpochFailed, i, err)
		}
		total += sse

		if err := t.net.ComputeDelta(); err != nil {
			return 0, fmt.Errorf("%w: training pattern %d: %w", ErrEpochFailed, i, err)
		}
		if err := t.net.IncrementGradients(); err != nil {
			return 0, fmt.Errorf("%w: training pattern %d: %w", ErrEpochFailed, i, err)
		}
	}

	if err := t.net.UpdateWeights(t.lr); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEpochFailed, err)
	}
	t.epochs++

	t.logger.Debug("training epoch", "epoch", t.epochs, "sse", total)
	return total, nil
}

// RunTestingEpoch presents every testing pattern once without changing any
// weight and returns the summed squared error. When w is non-nil a report
// block is written for each pattern.
//
// On error it returns 0.
func (t *Trainer) RunTestingEpoch(w io.Writer) (float64, error) {
	if err := t.ready(t.test); err != nil {
		return 0, err
	}
	return t.sweep(t.test, "testing", w)
}

// sweep presents every pattern of s without touching weights or gradients.
func (t *Trainer) sweep(s *data.PatternSet, kind string, w io.Writer) (float64, error) {
	total := 0.0
	for i, p := range s.Patterns() {
		sse, err := t.present(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %s pattern %d: %w", ErrEpochFailed, kind, i, err)
		}
		total += sse

		if w != nil {
			if err := writeReport(w, t.input.Activation(), t.output.Activation(), p.Target, sse); err != nil {
				return 0, fmt.Errorf("%w: %s pattern %d: %w", ErrEpochFailed, kind, i, err)
			}
		}
	}
	return total, nil
}

// Evaluate runs the forward pass on input and returns a copy of the output
// activation. Weights and the epoch counter are unaffected.
func (t *Trainer) Evaluate(input linalg.Vector) (linalg.Vector, error) {
	if !t.readyNet {
		return linalg.Vector{}, ErrNotInitialized
	}
	if err := t.input.LoadInput(input); err != nil {
		return linalg.Vector{}, err
	}
	if err := t.net.ComputeActivation(); err != nil {
		return linalg.Vector{}, err
	}
	return t.output.Activation(), nil
}

// StopCriteria bounds a Train call.
type StopCriteria struct {
	MaxEpochs      int     // Stop once Epochs() reaches this count (<= 0 = no limit)
	ErrorThreshold float64 // Stop once an epoch's SSE is at or below this value
}

// Train runs training epochs until the epoch counter reaches MaxEpochs or an
// epoch's error falls to ErrorThreshold. progress, if non-nil, is called after
// every epoch. The context is checked between epochs.
//
// It returns the error of the last epoch run. When the epoch limit is already
// reached and no epoch runs, it returns the training set error under the
// current weights instead. If ctx is done before the first epoch it returns 0
// and the context error.
func (t *Trainer) Train(ctx context.Context, stop StopCriteria, progress func(epoch int, sse float64)) (float64, error) {
	if err := t.ready(t.train); err != nil {
		return 0, err
	}

	var sse float64
	ran := false
	for (stop.MaxEpochs <= 0 || t.epochs < stop.MaxEpochs) && (!ran || sse > stop.ErrorThreshold) {
		if err := ctx.Err(); err != nil {
			return sse, err
		}

		var err error
		if sse, err = t.RunTrainingEpoch(); err != nil {
			return 0, err
		}
		ran = true
		if progress != nil {
			progress(t.epochs, sse)
		}
	}

	if !ran {
		var err error
		if sse, err = t.sweep(t.train, "training", nil); err != nil {
			return 0, err
		}
	}

	t.logger.Info("training finished", "epochs", t.epochs, "sse", sse)
	return sse, nil
}
