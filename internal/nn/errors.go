package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidSize        = errors.New("nn: layer size must be positive")
	ErrBadRange           = errors.New("nn: activation range minimum must be below maximum")
	ErrUnknownLayer       = errors.New("nn: layer does not belong to this network")
	ErrConnectionMismatch = errors.New("nn: projection shape does not match layer sizes")
	ErrBackwardProjection = errors.New("nn: projection source must be created before its destination")
	ErrNoTarget           = errors.New("nn: no target loaded")
	ErrNoInputLayer       = errors.New("nn: network has no input layer")
	ErrNoOutputLayer      = errors.New("nn: network has no output layer")
)

// LayerError records which layer failed during a network sweep.
type LayerError struct {
	Layer LayerID // Layer being processed
	Op    string  // Sweep step (e.g. "activation", "delta")
	Err   error   // Underlying cause
}

// Error implements the error interface.
func (e *LayerError) Error() string {
	return fmt.Sprintf("nn: layer %d: %s: %v", e.Layer, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LayerError) Unwrap() error {
	return e.Err
}
