package data

import "errors"

// Common errors.
var (
	ErrBadHeader   = errors.New("data: pattern, input and output counts must be positive")
	ErrPatternSize = errors.New("data: pattern does not match set dimensions")
)
