package sqlitedb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesSchemaIdempotently(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "guestbook.db")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		db, err := Open(ctx, path)
		require.NoError(t, err, "Open #%d", i+1)

		var version int
		require.NoError(t, db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
		assert.Equal(t, currentSchemaVersion, version)

		for _, table := range []string{"parties", "party_members", "rsvps", "rsvp_history"} {
			var name string
			err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			assert.NoError(t, err, "table %s missing", table)
		}
		_ = db.Close()
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestTimeRoundTripSortsLexically(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 6, 1, 12, 0, 5, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)
	assert.Less(t, FormatTime(a), FormatTime(b))

	got, err := ParseTime(FormatTime(b))
	require.NoError(t, err)
	assert.True(t, got.Equal(b), "ParseTime(FormatTime(%v))=%v", b, got)

	_, err = ParseTime("2026-06-01T12:00:05Z")
	assert.NoError(t, err)

	p, err := ParseTimePtr(sql.NullString{})
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, FormatTimePtr(nil))
}
