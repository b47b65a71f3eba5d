// Package kinds defines the guestbook error taxonomy.
//
// Every error that crosses a package boundary either is, or unwraps to, one of the
// sentinel kinds below so that HTTP handlers can map it to a status code with errors.Is.
package kinds

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrNotFound       = errors.New("not_found")
	ErrAmbiguousMatch = errors.New("ambiguous_match")
	ErrInvalidInput   = errors.New("invalid_input")
	ErrStorage        = errors.New("storage")
	ErrAuthDenied     = errors.New("auth_denied")
)
