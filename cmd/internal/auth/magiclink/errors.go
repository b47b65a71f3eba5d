package magiclink

import (
	"errors"

	"guestbook/cmd/internal/kinds"
)

var (
	ErrNotFound  = errors.New("login link not found")
	ErrNotActive = errors.New("login link expired or already used")
)

// SendError wraps a mailer failure. The link row has already been stored when it is returned.
type SendError struct {
	Err error
}

func (e SendError) Error() string { return "send login link: " + e.Err.Error() }

func (e SendError) Unwrap() error { return e.Err }

// IsInvalidLink reports whether err means the presented token cannot be used.
func IsInvalidLink(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotActive) || errors.Is(err, kinds.ErrAuthDenied)
}
