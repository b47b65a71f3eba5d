package rsvp

import (
	"context"
	"sort"
	"sync"

	"guestbook/cmd/internal/kinds"
)

// MemoryStore is an in-process Store for tests and demos.
type MemoryStore struct {
	mu      sync.RWMutex
	rows    []RSVP
	history []HistoryEntry
}

// NewMemoryStore returns an empty MemoryStore seeded with rows.
func NewMemoryStore(rows ...RSVP) *MemoryStore {
	s := &MemoryStore{}
	for _, r := range rows {
		s.rows = append(s.rows, cloneRSVP(r))
	}
	return s
}

// ListRSVPs implements RowStore.
func (s *MemoryStore) ListRSVPs(ctx context.Context) ([]RSVP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]RSVP, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, cloneRSVP(r))
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ListByParty implements RowStore. Rows come back in insertion order.
func (s *MemoryStore) ListByParty(ctx context.Context, partyID string) ([]RSVP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RSVP
	for _, r := range s.rows {
		if r.PartyID != nil && *r.PartyID == partyID {
			out = append(out, cloneRSVP(r))
		}
	}
	return out, nil
}

// InsertRSVP implements RowStore.
func (s *MemoryStore) InsertRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	if err := ctx.Err(); err != nil {
		return RSVP{}, err
	}
	if r.ID == "" {
		return RSVP{}, kinds.Invalid("id", "rsvp id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.rows {
		if cur.ID == r.ID {
			return RSVP{}, kinds.OpError{Op: "rsvp.MemoryStore.InsertRSVP", Kind: kinds.ErrStorage, Msg: "duplicate id " + r.ID}
		}
	}
	s.rows = append(s.rows, cloneRSVP(r))
	return cloneRSVP(r), nil
}

// UpdateRSVP implements RowStore.
func (s *MemoryStore) UpdateRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	if err := ctx.Err(); err != nil {
		return RSVP{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.rows {
		if cur.ID != r.ID {
			continue
		}
		r.CreatedAt = cur.CreatedAt
		s.rows[i] = cloneRSVP(r)
		return cloneRSVP(r), nil
	}
	return RSVP{}, kinds.OpError{Op: "rsvp.MemoryStore.UpdateRSVP", Kind: kinds.ErrNotFound, Msg: r.ID}
}

// AppendHistory implements HistoryStore.
func (s *MemoryStore) AppendHistory(ctx context.Context, entries []HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.history = append(s.history, cloneEntry(e))
	}
	return nil
}

// QueryHistory implements HistoryStore.
func (s *MemoryStore) QueryHistory(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]HistoryEntry, 0, len(s.history))
	for _, e := range s.history {
		if f.matches(e) {
			out = append(out, cloneEntry(e))
		}
	}
	s.mu.RUnlock()

	sortHistory(out)
	return out, nil
}

func sortHistory(es []HistoryEntry) {
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].ChangedAt.Equal(es[j].ChangedAt) {
			return es[i].ChangedAt.After(es[j].ChangedAt)
		}
		return es[i].ID > es[j].ID
	})
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRSVP(r RSVP) RSVP {
	out := r
	out.PartyID = cloneStr(r.PartyID)
	out.LastName = cloneStr(r.LastName)
	out.MemberID = cloneStr(r.MemberID)
	out.MemberName = cloneStr(r.MemberName)
	out.Name = cloneStr(r.Name)
	out.DietaryRestrictions = cloneStr(r.DietaryRestrictions)
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func cloneEntry(e HistoryEntry) HistoryEntry {
	out := e
	out.PartyID = cloneStr(e.PartyID)
	out.LastName = cloneStr(e.LastName)
	out.MemberID = cloneStr(e.MemberID)
	out.MemberName = cloneStr(e.MemberName)
	out.DietaryRestrictions = cloneStr(e.DietaryRestrictions)
	if e.PreviousValues != nil {
		pv := *e.PreviousValues
		pv.DietaryRestrictions = cloneStr(e.PreviousValues.DietaryRestrictions)
		out.PreviousValues = &pv
	}
	return out
}
