package backprop

import "errors"

// Common errors.
var (
	ErrNotInitialized = errors.New("backprop: network not initialized")
	ErrNoPatterns     = errors.New("backprop: no patterns")
	ErrEpochFailed    = errors.New("backprop: epoch failed")
)
