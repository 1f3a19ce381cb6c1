// Package main provides the bpnet command, which trains a three-layer
// network on a pattern file and reports its performance on a second one.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/bpnet/backprop"
)

const version = "v0.1.0"

type options struct {
	in, hidden, out int
	lr, wtRange     float64
	epochs          int
	sse             float64
	report          int
	seed            int64
	train, test     string
	saveWeights     string
	loadWeights     string
	verbose         bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("bpnet", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&o.in, "in", 2, "Number of input units")
	fs.IntVar(&o.hidden, "hidden", 2, "Number of hidden units")
	fs.IntVar(&o.out, "out", 1, "Number of output units")
	fs.Float64Var(&o.lr, "lr", 0.1, "Learning rate")
	fs.Float64Var(&o.wtRange, "range", 1.0, "Width of the initial weight range, centred on zero")
	fs.IntVar(&o.epochs, "epochs", 1000, "Maximum number of training epochs (0 = test only)")
	fs.Float64Var(&o.sse, "sse", 0.05, "Stop training once an epoch's SSE falls to this value")
	fs.IntVar(&o.report, "report", 10, "Report training progress every N epochs")
	fs.Int64Var(&o.seed, "seed", -1, "Random seed for initial weights (-1 = from the clock)")
	fs.StringVar(&o.train, "train", "", "Training pattern file")
	fs.StringVar(&o.test, "test", "", "Testing pattern file")
	fs.StringVar(&o.saveWeights, "save-weights", "", "Write trained weights to this new file")
	fs.StringVar(&o.loadWeights, "load-weights", "", "Start from the weights in this file")
	fs.BoolVar(&o.verbose, "v", false, "Log every training epoch")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, errors.Errorf("unexpected argument %q", fs.Arg(0))
	}

	switch {
	case o.in < 1:
		return o, errors.New("invalid number of input units")
	case o.hidden < 1:
		return o, errors.New("invalid number of hidden units")
	case o.out < 1:
		return o, errors.New("invalid number of output units")
	case o.lr <= 0:
		return o, errors.New("invalid learning rate")
	case o.wtRange <= 0:
		return o, errors.New("invalid initial weight range")
	case o.epochs < 0:
		return o, errors.New("invalid epoch count stopping criterion")
	case o.sse < 0:
		return o, errors.New("invalid SSE stopping criterion")
	case o.report < 1:
		return o, errors.New("invalid report interval")
	case o.epochs > 0 && o.train == "":
		return o, errors.New("a training set file name is required (-train)")
	case o.test == "":
		return o, errors.New("a testing set file name is required (-test)")
	}
	return o, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())
}

// run builds, trains and tests a network as described by args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, o.verbose)
	tr := backprop.New(backprop.Config{
		LearningRate:       o.lr,
		InitialWeightRange: o.wtRange,
		Seed:               o.seed,
		Logger:             logger,
	})

	net := tr.Network()
	inLayer, err := net.CreateLayer(o.in)
	if err != nil {
		return errors.Wrap(err, "create input layer")
	}
	hidLayer, err := net.CreateLayer(o.hidden)
	if err != nil {
		return errors.Wrap(err, "create hidden layer")
	}
	outLayer, err := net.CreateLayer(o.out)
	if err != nil {
		return errors.Wrap(err, "create output layer")
	}
	if _, err := net.CreateProjection(inLayer, hidLayer); err != nil {
		return errors.Wrap(err, "connect input to hidden")
	}
	if _, err := net.CreateProjection(hidLayer, outLayer); err != nil {
		return errors.Wrap(err, "connect hidden to output")
	}

	if o.epochs > 0 {
		if err := tr.ReadTrainingPatterns(o.train); err != nil {
			return errors.Wrap(err, "unable to read training pattern file")
		}
	}
	if err := tr.ReadTestingPatterns(o.test); err != nil {
		return errors.Wrap(err, "unable to read testing pattern file")
	}

	if err := tr.InitNetwork(); err != nil {
		return errors.Wrap(err, "initialize network")
	}
	if o.loadWeights != "" {
		if err := net.LoadWeights(o.loadWeights); err != nil {
			return errors.Wrapf(err, "load weights from %s", o.loadWeights)
		}
		logger.Info("weights loaded", "path", o.loadWeights)
	}

	fmt.Fprintln(stdout, "BACKPROPAGATION LEARNING ALGORITHM")
	if o.epochs > 0 {
		stop := backprop.StopCriteria{MaxEpochs: o.epochs, ErrorThreshold: o.sse}
		sse, err := tr.Train(ctx, stop, func(epoch int, sse float64) {
			if epoch%o.report == 0 {
				fmt.Fprintf(stdout, "Epoch %d:  SSE = %g.\n", epoch, sse)
			}
		})
		if err != nil {
			return errors.Wrap(err, "training epoch failed")
		}
		fmt.Fprintf(stdout, "Final Epoch %d:  SSE = %g.\n", tr.Epochs(), sse)
	}

	fmt.Fprintln(stdout)
	sse, err := tr.RunTestingEpoch(stdout)
	if err != nil {
		return errors.Wrap(err, "testing epoch failed")
	}
	fmt.Fprintf(stdout, "Testing SSE = %g.\n\n", sse)

	if o.saveWeights != "" {
		if err := net.SaveWeights(o.saveWeights); err != nil {
			return errors.Wrapf(err, "save weights to %s", o.saveWeights)
		}
		logger.Info("weights saved", "path", o.saveWeights)
	}

	fmt.Fprintln(stdout, "ARTIFICIAL NEURAL NETWORK RUN COMPLETE")
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("bpnet %s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "bpnet: %v\n", err)
		if os.Getenv("BPNET_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
