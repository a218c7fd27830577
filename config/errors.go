package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for config operations.
var (
	// ErrInvalidConfig indicates a recognized key failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingKey indicates a required key was absent.
	ErrMissingKey = errors.New("config: missing required key")
)

// IoError wraps a failure to read the configuration file, mirroring
// pointstore.IoError's shape.
type IoError struct {
	Path  string
	Cause error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Cause)
}

func (e *IoError) Unwrap() error { return e.Cause }
