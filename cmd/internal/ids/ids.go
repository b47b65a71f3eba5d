// Package ids provides the identifier primitives used across the guestbook.
//
// Roster and RSVP rows use UUIDv7 strings (compatible with the uuid columns of the hosted
// schema); audit-style rows (history, login links, sessions) use ULIDs, which sort by time.
package ids

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewUUID returns a new time-ordered UUIDv7 string.
func NewUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewULID returns a new ULID string (26 chars) stamped with now.
func NewULID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
