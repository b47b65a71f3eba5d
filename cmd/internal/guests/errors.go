package guests

import (
	"fmt"

	"guestbook/cmd/internal/kinds"
)

// AmbiguousMatchError is returned when a last name matches more than one party.
// The caller must pick one of Candidates before an RSVP can be submitted.
type AmbiguousMatchError struct {
	Query      string
	Candidates []Party
}

func (e AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%v: %d parties match %q", kinds.ErrAmbiguousMatch, len(e.Candidates), e.Query)
}

func (e AmbiguousMatchError) Unwrap() error { return kinds.ErrAmbiguousMatch }
