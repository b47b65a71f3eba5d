package kinds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpErrorUnwrapsKindAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := Storage("rsvp.InsertRSVP", cause)

	require.True(t, IsStorage(err), "expected storage kind: %v", err)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "rsvp.InsertRSVP: storage: connection reset")
}

func TestStorageDoesNotDoubleWrap(t *testing.T) {
	t.Parallel()

	inner := Storage("inner", errors.New("boom"))
	assert.Equal(t, inner, Storage("outer", inner))
	assert.NoError(t, Storage("op", nil))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{err: Invalid("email", "is required"), want: "invalid_input: email: is required"},
		{err: Invalid("", "bad body"), want: "invalid_input: bad body"},
	}
	for _, tc := range cases {
		assert.True(t, IsValidation(tc.err), "expected validation kind for %v", tc.err)
		assert.EqualError(t, tc.err, tc.want)
	}
	assert.False(t, IsNotFound(Invalid("x", "y")))
	assert.False(t, IsAuthDenied(Invalid("x", "y")))
}
