package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSelfChat         = fmt.Errorf("cannot open a chat with yourself")
	ErrMissingIdentity  = fmt.Errorf("identity reference is required")
	ErrMissingRoom      = fmt.Errorf("room reference is required")
	ErrEmptyMessage     = fmt.Errorf("message text is empty")
	ErrUnsupportedImage = fmt.Errorf("unsupported image type")
	ErrInvalidToken     = fmt.Errorf("invalid identity token")
)

// validationError marks a caller input fault. Validation failures are
// detected before any store call and are never retried.
type validationError struct {
	err error
}

func (v validationError) Error() string { return v.err.Error() }

func (v validationError) Unwrap() error { return v.err }

// Validation wraps err as an input fault.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return validationError{err: err}
}

// IsValidation reports whether err comes from bad caller input rather
// than from the store. Store failures are wrapped with %w and keep
// their original type.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
