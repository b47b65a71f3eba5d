package kinds

import (
	"errors"
	"fmt"
)

// OpError is a typed operation error with a stable Op + Kind contract for callers/tests.
// Err carries the underlying cause (driver error, decode error) when there is one.
type OpError struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e OpError) Error() string {
	s := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Storage wraps a backing-store failure for op. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var oe OpError
	if errors.As(err, &oe) && errors.Is(err, ErrStorage) {
		return err
	}
	return OpError{Op: op, Kind: ErrStorage, Err: err}
}

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidInput, e.Msg)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidInput, e.Field, e.Msg)
}

func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError.
func Invalid(field, msg string) error {
	return ValidationError{Field: field, Msg: msg}
}

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAmbiguous reports whether err represents ErrAmbiguousMatch.
func IsAmbiguous(err error) bool { return errors.Is(err, ErrAmbiguousMatch) }

// IsValidation reports whether err represents ErrInvalidInput.
func IsValidation(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsStorage reports whether err represents ErrStorage.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }

// IsAuthDenied reports whether err represents ErrAuthDenied.
func IsAuthDenied(err error) bool { return errors.Is(err, ErrAuthDenied) }
