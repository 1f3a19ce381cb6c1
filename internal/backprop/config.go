package backprop

import (
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// Config holds trainer hyperparameters.
type Config struct {
	LearningRate       float64      // Step size applied to accumulated changes (default: 0.1)
	InitialWeightRange float64      // Width of the uniform range weights start in, centred on zero (default: 1.0)
	Seed               int64        // Random seed for weight initialization (-1 = seed from the clock)
	Logger             *slog.Logger // Training log sink (nil = discard)
}

// DefaultConfig returns the default trainer configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate:       0.1,
		InitialWeightRange: 1.0,
		Seed:               -1,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.LearningRate <= 0 {
		c.LearningRate = def.LearningRate
	}
	if c.InitialWeightRange <= 0 {
		c.InitialWeightRange = def.InitialWeightRange
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c Config) newRand() *rand.Rand {
	seed := c.Seed
	if seed == -1 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is appropriate for weight initialization
}
