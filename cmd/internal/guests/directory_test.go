package guests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestbook/cmd/internal/kinds"
)

func fixtureParties() []Party {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return []Party{
		{
			ID: "p-smith-1", LastName: "Smith", CreatedAt: created,
			Members: []Member{{ID: "m1", FirstName: "Ann", LastName: "Smith"}, {ID: "m2", FirstName: "Bob", LastName: "Smith"}},
		},
		{
			ID: "p-smith-2", LastName: "Smith", CreatedAt: created.Add(time.Minute),
			Members: []Member{{ID: "m3", FirstName: "Cal", LastName: "Smith"}},
		},
		{
			ID: "p-garcia", LastName: "Garcia", CreatedAt: created,
			Members: []Member{{ID: "m4", FirstName: "Dee", LastName: "Garcia"}, {ID: "m5", FirstName: "Eli", LastName: "Nakamura"}},
		},
	}
}

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory(NewMemoryStore(fixtureParties()...))
	require.NoError(t, err)
	return d
}

func TestFindPartiesByLastName_NotFound(t *testing.T) {
	t.Parallel()

	_, err := newTestDirectory(t).FindPartiesByLastName(context.Background(), "Jones")
	require.Error(t, err)
	assert.True(t, kinds.IsNotFound(err))
}

func TestFindPartiesByLastName_SingleMatchCarriesMembers(t *testing.T) {
	t.Parallel()

	got, err := newTestDirectory(t).FindPartiesByLastName(context.Background(), "  garcia ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-garcia", got[0].ID)
	assert.Len(t, got[0].Members, 2)
}

func TestFindPartiesByLastName_MatchesMemberSurname(t *testing.T) {
	t.Parallel()

	got, err := newTestDirectory(t).FindPartiesByLastName(context.Background(), "NAKAMURA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-garcia", got[0].ID)
}

func TestFindPartiesByLastName_Ambiguous(t *testing.T) {
	t.Parallel()

	got, err := newTestDirectory(t).FindPartiesByLastName(context.Background(), "smith")
	require.Error(t, err)
	assert.True(t, kinds.IsAmbiguous(err))

	var amb AmbiguousMatchError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Candidates, 2)
	assert.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"p-smith-1", "p-smith-2"}, []string{got[0].ID, got[1].ID})
}

func TestFindPartiesByLastName_NoPartialMatching(t *testing.T) {
	t.Parallel()

	d := newTestDirectory(t)
	for _, q := range []string{"Smit", "Smiths", "Gar"} {
		_, err := d.FindPartiesByLastName(context.Background(), q)
		assert.Truef(t, kinds.IsNotFound(err), "query %q: %v", q, err)
	}
}

func TestFindPartiesByLastName_EmptyQuery(t *testing.T) {
	t.Parallel()

	_, err := newTestDirectory(t).FindPartiesByLastName(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, kinds.IsValidation(err))
}

type failingStore struct{ err error }

func (f failingStore) ListParties(context.Context) ([]Party, error) { return nil, f.err }
func (f failingStore) CreateParty(context.Context, CreatePartyInput) (Party, error) {
	return Party{}, f.err
}

func TestFindPartiesByLastName_StorageError(t *testing.T) {
	t.Parallel()

	d, err := NewDirectory(failingStore{err: errors.New("db down")})
	require.NoError(t, err)

	_, err = d.FindPartiesByLastName(context.Background(), "Smith")
	require.Error(t, err)
	assert.True(t, kinds.IsStorage(err))
}

func TestNewDirectoryRejectsNilStore(t *testing.T) {
	t.Parallel()

	_, err := NewDirectory(nil)
	require.Error(t, err)
}
