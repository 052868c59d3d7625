package wire

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for inputs the wire format cannot represent,
// such as negative varints or out-of-range field numbers.
var ErrInvalidArgument = errors.New("invalid argument")

// FieldError represents an encoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["VisitorData", "locale", "extra", "nonce"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// WrapField prefixes err's field path with fieldName. Nested calls build the
// path from the innermost field outwards.
func WrapField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
