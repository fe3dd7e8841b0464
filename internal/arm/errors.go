package arm

import "errors"

// Domain errors for estimator operations.
var (
	// ErrInvalidConfig indicates an arm design that cannot be evaluated.
	ErrInvalidConfig = errors.New("arm: invalid configuration")

	// ErrUnknownParam indicates a tunable parameter name that does not exist.
	ErrUnknownParam = errors.New("arm: unknown parameter")
)
