package guests

import (
	"context"
	"errors"
	"log/slog"

	"guestbook/cmd/internal/kinds"
)

// Directory is the read-only Party Directory.
type Directory struct {
	store Store
	log   *slog.Logger
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithLogger sets the directory logger.
func WithLogger(log *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDirectory constructs a Directory over store.
func NewDirectory(store Store, opts ...DirectoryOption) (*Directory, error) {
	if store == nil {
		return nil, errors.New("guests: nil store")
	}
	d := &Directory{store: store, log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// ListParties returns the full roster ordered by last name.
func (d *Directory) ListParties(ctx context.Context) ([]Party, error) {
	parties, err := d.store.ListParties(ctx)
	if err != nil {
		return nil, kinds.Storage("guests.ListParties", err)
	}
	return parties, nil
}

// FindPartiesByLastName returns the parties whose own last name, or any member's last name,
// equals query after normalization.
//
//   - no match: a kinds.ErrNotFound error
//   - one match: a single-element slice and nil error
//   - several: every candidate plus an AmbiguousMatchError
func (d *Directory) FindPartiesByLastName(ctx context.Context, query string) ([]Party, error) {
	if NormalizeName(query) == "" {
		return nil, kinds.Invalid("lastName", "Last name is required")
	}
	parties, err := d.ListParties(ctx)
	if err != nil {
		return nil, err
	}

	matches := MatchParties(parties, query)
	switch len(matches) {
	case 0:
		return nil, kinds.OpError{Op: "guests.FindPartiesByLastName", Kind: kinds.ErrNotFound, Msg: "No matching invite found"}
	case 1:
		return matches, nil
	default:
		d.log.Debug("guests.lookup.ambiguous", "candidates", len(matches))
		return matches, AmbiguousMatchError{Query: query, Candidates: matches}
	}
}

// MatchParties filters parties by exact normalized surname equality against the party's
// last name or any of its members' last names. Input order is preserved.
func MatchParties(parties []Party, query string) []Party {
	q := NormalizeName(query)
	if q == "" {
		return nil
	}

	var out []Party
	for _, p := range parties {
		if partyMatches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func partyMatches(p Party, q string) bool {
	if NormalizeName(p.LastName) == q {
		return true
	}
	for _, m := range p.Members {
		if NormalizeName(m.LastName) == q {
			return true
		}
	}
	return false
}
