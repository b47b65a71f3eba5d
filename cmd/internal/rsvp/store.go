package rsvp

import "context"

// RowStore persists RSVP rows.
type RowStore interface {
	// ListRSVPs returns every row, newest created first.
	ListRSVPs(ctx context.Context) ([]RSVP, error)
	// ListByParty returns the rows whose party_id equals partyID.
	ListByParty(ctx context.Context, partyID string) ([]RSVP, error)
	InsertRSVP(ctx context.Context, r RSVP) (RSVP, error)
	// UpdateRSVP overwrites every mutable field of the row with r.ID.
	UpdateRSVP(ctx context.Context, r RSVP) (RSVP, error)
}

// HistoryStore is the append-only RSVP history log.
type HistoryStore interface {
	// AppendHistory writes entries as one batch.
	AppendHistory(ctx context.Context, entries []HistoryEntry) error
	// QueryHistory returns matching entries, newest changed_at first (ties by id, descending).
	QueryHistory(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error)
}

// Store is the full persistence boundary used by Service.
type Store interface {
	RowStore
	HistoryStore
}
