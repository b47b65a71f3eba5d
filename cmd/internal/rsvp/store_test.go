package rsvp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/internal/sqlitedb"
)

func openSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), sqlitedb.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return st
}

// rowStoreContract covers ordering, legacy rows and missing-row updates.
func rowStoreContract(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	legacy := RSVP{ID: "00000000-0000-7000-8000-000000000001", Name: strPtr("Jane Q Public"), Email: "jane@example.com", IsAttending: true, CreatedAt: base}
	grouped := RSVP{
		ID: "00000000-0000-7000-8000-000000000002", PartyID: strPtr("party-9"), LastName: strPtr("Lee"),
		MemberID: strPtr("m9"), MemberName: strPtr("Kim Lee"), Email: "kim@example.com", CreatedAt: base.Add(time.Hour),
	}
	for _, r := range []RSVP{legacy, grouped} {
		_, err := st.InsertRSVP(ctx, r)
		require.NoError(t, err)
	}

	all, err := st.ListRSVPs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, grouped.ID, all[0].ID, "newest first")
	assert.True(t, all[1].IsLegacy())
	assert.Equal(t, "Jane Q Public", *all[1].Name)
	assert.Nil(t, all[1].UpdatedAt)

	party, err := st.ListByParty(ctx, "party-9")
	require.NoError(t, err)
	require.Len(t, party, 1)
	assert.True(t, party[0].CreatedAt.Equal(grouped.CreatedAt))

	_, err = st.UpdateRSVP(ctx, RSVP{ID: "00000000-0000-7000-8000-00000000dead", Email: "x@example.com"})
	assert.True(t, kinds.IsNotFound(err))

	entries := []HistoryEntry{
		{ID: "01JAAAAAAAAAAAAAAAAAAAAAA1", RSVPID: grouped.ID, PartyID: grouped.PartyID, Email: "kim@example.com", Action: ActionCreated, ChangedAt: base},
		{ID: "01JAAAAAAAAAAAAAAAAAAAAAA2", RSVPID: grouped.ID, PartyID: grouped.PartyID, Email: "kim@example.com", Action: ActionUpdated, ChangedAt: base.Add(time.Minute),
			PreviousValues: &PreviousValues{IsAttending: true, DietaryRestrictions: strPtr("vegan"), Email: "old@example.com"}},
	}
	require.NoError(t, st.AppendHistory(ctx, entries))

	hist, err := st.QueryHistory(ctx, HistoryFilter{PartyID: "party-9"})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, ActionUpdated, hist[0].Action)
	require.NotNil(t, hist[0].PreviousValues)
	assert.Equal(t, "vegan", *hist[0].PreviousValues.DietaryRestrictions)
	assert.Nil(t, hist[1].PreviousValues)
}

func TestMemoryStoreContract(t *testing.T) {
	t.Parallel()
	rowStoreContract(t, NewMemoryStore())
}

func TestSQLiteStoreContract(t *testing.T) {
	t.Parallel()
	rowStoreContract(t, openSQLiteStore(t))
}

func TestSubmit_SQLiteStore(t *testing.T) {
	t.Parallel()
	reconcilerContract(t, openSQLiteStore(t))
}
