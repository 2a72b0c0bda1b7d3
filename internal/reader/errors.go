package reader

import (
	"errors"
	"fmt"
)

// External error codes, fixed for compatibility with existing consumers of
// the detection contract.
const (
	CodeOK           = 0
	CodeInvalidInput = 1
	CodeProcessing   = 2
)

// ErrInvalidInput marks a malformed call: nil buffer, non-positive
// dimensions, or a buffer smaller than the claimed size. Detected up front,
// before any processing.
var ErrInvalidInput = errors.New("invalid input")

// ProcessingError wraps any failure inside the numerical pipeline —
// degenerate geometry, out-of-range sampling, primitive-library panics. The
// stage name and cause stay available for logging; Code collapses it to the
// external contract.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Code maps an error from any entry point onto the external code set:
// 0 ok, 1 invalid input, 2 processing failure. A nil error with an empty
// result is the legitimate "nothing found" outcome.
func Code(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeProcessing
	}
}

// invalidInput wraps a validation failure in ErrInvalidInput.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// recoverStage converts a panic out of the primitive library into a
// ProcessingError. Deferred at every operation boundary so internal
// exceptions never propagate to callers.
func recoverStage(stage string, errp *error) {
	if r := recover(); r != nil {
		*errp = &ProcessingError{Stage: stage, Err: fmt.Errorf("%v", r)}
	}
}
