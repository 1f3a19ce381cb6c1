package linalg

import "errors"

// Common errors.
//
// Every arithmetic operation that fails returns one of these (possibly wrapped)
// together with an invalid result. Nothing in this package panics on bad operands.
var (
	ErrInvalid           = errors.New("linalg: invalid operand")
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")
	ErrBadRange          = errors.New("linalg: range minimum must be below maximum")
	ErrParse             = errors.New("linalg: malformed numeric token")
	ErrShortRead         = errors.New("linalg: not enough values")
)
