package tracker

import "errors"

// Sentinel errors for tracker operations.
var (
	// ErrInvalidConfig indicates a bad constructor parameter (e.g. a
	// negative weight or window size).
	ErrInvalidConfig = errors.New("tracker: invalid config")

	// ErrEmptyPath indicates a source returned zero steps for a point,
	// which should never happen for a non-empty tree.
	ErrEmptyPath = errors.New("tracker: path source returned an empty path")
)
