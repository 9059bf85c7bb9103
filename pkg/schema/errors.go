package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports the first invalid field encountered during
// validation, carrying the path from the root descriptor to the field.
type ValidationError struct {
	// Path locates the failing field, outermost segment first.
	// Empty for root-level failures.
	Path []string

	// Message is the human-readable failure description.
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ".") + ": " + e.Message
}

// newError builds a ValidationError at the given path. The path slice is
// copied so callers may keep appending to their working slice.
func newError(path []string, format string, args ...any) *ValidationError {
	return &ValidationError{
		Path:    append([]string(nil), path...),
		Message: fmt.Sprintf(format, args...),
	}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts the ValidationError from err if present.
// Returns nil otherwise.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
