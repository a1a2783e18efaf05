package validate

import (
	"errors"
	"fmt"
)

// ErrInvalid is the sentinel kind for all validation failures.
var ErrInvalid = errors.New("invalid event")

// FieldError describes which field violated the contract. It unwraps to
// ErrInvalid so callers can classify with errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func newFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid event: field %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }
