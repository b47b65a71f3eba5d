package guests

import (
	"context"
	"sort"
	"sync"
	"time"

	"guestbook/cmd/internal/kinds"
)

// MemoryStore is an in-process Store for tests and demos.
type MemoryStore struct {
	mu      sync.RWMutex
	parties []Party
	now     func() time.Time
}

// NewMemoryStore returns a MemoryStore seeded with parties.
func NewMemoryStore(parties ...Party) *MemoryStore {
	s := &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
	for _, p := range parties {
		s.parties = append(s.parties, clonePartyValue(p))
	}
	return s
}

// ListParties implements Store.
func (s *MemoryStore) ListParties(ctx context.Context) ([]Party, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Party, 0, len(s.parties))
	for _, p := range s.parties {
		out = append(out, clonePartyValue(p))
	}
	s.mu.RUnlock()

	sortParties(out)
	return out, nil
}

// CreateParty implements Store.
func (s *MemoryStore) CreateParty(ctx context.Context, in CreatePartyInput) (Party, error) {
	if err := ctx.Err(); err != nil {
		return Party{}, err
	}
	prepared, err := in.prepare(s.now())
	if err != nil {
		return Party{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parties {
		if p.ID == prepared.ID {
			return Party{}, kinds.Storage("guests.MemoryStore.CreateParty", errDuplicateID(p.ID))
		}
	}
	p := prepared.party()
	s.parties = append(s.parties, p)
	return clonePartyValue(p), nil
}

type errDuplicateID string

func (e errDuplicateID) Error() string { return "duplicate party id " + string(e) }

func clonePartyValue(p Party) Party {
	out := p
	out.Members = append([]Member(nil), p.Members...)
	return out
}

// sortParties orders like the SQL stores: last_name, created_at, id.
func sortParties(ps []Party) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].LastName != ps[j].LastName {
			return ps[i].LastName < ps[j].LastName
		}
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}
