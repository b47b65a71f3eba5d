package magiclink

import (
	"context"
	"sync"
	"time"
)

// Link is a stored login link. The plain token is never stored.
type Link struct {
	ID         string
	Email      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// CreateRecord is a normalized link insert payload.
type CreateRecord struct {
	ID        string
	Email     string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ConsumeRecord describes a token consumption.
type ConsumeRecord struct {
	TokenHash string
	Now       time.Time
}

// Store is the persistence boundary for login links.
type Store interface {
	Create(ctx context.Context, in CreateRecord) (Link, error)
	// Consume marks an unexpired, unused link as used. It returns ErrNotFound or ErrNotActive otherwise.
	Consume(ctx context.Context, in ConsumeRecord) (Link, error)
}

// MemoryStore keeps links in process. Links do not survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	byHash map[string]*Link
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: make(map[string]*Link)}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, in CreateRecord) (Link, error) {
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}
	l := &Link{ID: in.ID, Email: in.Email, CreatedAt: in.CreatedAt, ExpiresAt: in.ExpiresAt}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(in.CreatedAt)
	s.byHash[in.TokenHash] = l
	return *l, nil
}

// Consume implements Store.
func (s *MemoryStore) Consume(ctx context.Context, in ConsumeRecord) (Link, error) {
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byHash[in.TokenHash]
	if !ok {
		return Link{}, ErrNotFound
	}
	if l.ConsumedAt != nil || !l.ExpiresAt.After(in.Now) {
		return Link{}, ErrNotActive
	}
	now := in.Now
	l.ConsumedAt = &now
	return *l, nil
}

// pruneLocked drops links that expired more than a day ago.
func (s *MemoryStore) pruneLocked(now time.Time) {
	cut := now.Add(-24 * time.Hour)
	for h, l := range s.byHash {
		if l.ExpiresAt.Before(cut) {
			delete(s.byHash, h)
		}
	}
}
