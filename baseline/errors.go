package baseline

import "errors"

// Sentinel errors for baseline operations.
var (
	// ErrInvalidConfig indicates a bad Simulate parameter (non-positive
	// sequence_count or sample_rate).
	ErrInvalidConfig = errors.New("baseline: invalid config")

	// ErrEmptySource indicates Simulate was called against a source with
	// zero points.
	ErrEmptySource = errors.New("baseline: source has zero points")

	// ErrCancelled indicates Simulate was aborted via its context.
	ErrCancelled = errors.New("baseline: operation cancelled")
)
