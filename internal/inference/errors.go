package inference

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the recommendation and forecast pipelines.
// Callers match with errors.Is; the wrapped message carries the detail.
var (
	ErrMissingField         = errors.New("missing field")
	ErrInvalidType          = errors.New("invalid type")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrInvalidIndex         = errors.New("invalid index")
	ErrFeatureCountMismatch = errors.New("feature count mismatch")
	ErrInferenceFailure     = errors.New("inference failure")
	ErrIncompleteRegistry   = errors.New("incomplete model registry")
)

// FieldError reports a caller-supplied field that is absent or not usable.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the caller's input rather
// than by a model or the runtime.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrFeatureCountMismatch)
}
