package guests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"guestbook/cmd/internal/pgtest"
)

func TestPostgresStore(t *testing.T) {
	t.Parallel()

	pool := pgtest.OpenPool(t)
	schema := pgtest.Schema(t, pool, "guests")

	st, err := NewPostgresStore(pool, WithSchema(schema))
	require.NoError(t, err)
	storeContract(t, st)
}

func TestNewPostgresStoreValidation(t *testing.T) {
	t.Parallel()

	_, err := NewPostgresStore(nil)
	require.Error(t, err)
}
