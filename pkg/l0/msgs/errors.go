package msgs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingMarker indicates a required field is absent.
	ErrMissingMarker = errors.New("missing field")
	// ErrMissingDelimiter indicates the value of a field is not terminated.
	ErrMissingDelimiter = errors.New("missing delimiter")
	// ErrNotANumber indicates the value can't be parsed as a number.
	ErrNotANumber = errors.New("not a number")
	// ErrOutOfRange indicates the value exceeds the sanity bound.
	ErrOutOfRange = errors.New("out of range")
)

// FieldError wraps a parse failure of a field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

// Error implements error.
func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("field %q: %v: %q", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Reason returns a short label for the failure, suitable for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingMarker):
		return "missing_field"
	case errors.Is(err, ErrMissingDelimiter):
		return "bad_terminator"
	case errors.Is(err, ErrNotANumber):
		return "not_a_number"
	case errors.Is(err, ErrOutOfRange):
		return "bad_range"
	}
	return "unknown"
}
