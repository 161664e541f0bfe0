package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrProbeMismatch indicates a store returned a different value than written.
	ErrProbeMismatch = errors.New("health: probe value mismatch")
)
