package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesSchema(t *testing.T) {
	t.Parallel()

	scripts, err := Render("wedding")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)
	for _, s := range scripts {
		assert.NotContains(t, s, schemaPlaceholder)
	}
	assert.Contains(t, scripts[0], `"wedding".rsvp_history`)
}

func TestRenderRejectsEmptySchema(t *testing.T) {
	t.Parallel()

	_, err := Render("  ")
	assert.Error(t, err)
}
