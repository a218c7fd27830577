package pointstore

import "errors"

// Sentinel errors for pointstore operations.
var (
	// ErrInvalidPoint indicates a NaN (or otherwise non-finite) coordinate
	// was found in the input data.
	ErrInvalidPoint = errors.New("pointstore: invalid point (NaN coordinate)")

	// ErrDimensionMismatch indicates a query vector's length does not match
	// the store's configured dimension.
	ErrDimensionMismatch = errors.New("pointstore: dimension mismatch")

	// ErrEmptyStore indicates an operation required at least one point.
	ErrEmptyStore = errors.New("pointstore: store is empty")

	// ErrIndexOutOfRange indicates a point index outside [0, len).
	ErrIndexOutOfRange = errors.New("pointstore: point index out of range")
)

// IoError wraps a failure reading or mapping the backing data file, keeping
// the original cause attached per the engine's error-surface contract
// (§6/§7: IoError(cause)).
type IoError struct {
	Path  string
	Cause error
}

func (e *IoError) Error() string {
	return "pointstore: io error on " + e.Path + ": " + e.Cause.Error()
}

func (e *IoError) Unwrap() error { return e.Cause }
