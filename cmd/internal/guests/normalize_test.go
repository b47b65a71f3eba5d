package guests

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  Smith ", "smith"},
		{"SMITH", "smith"},
		{"O'Brien", "o'brien"},
		{"Straße", "strasse"},
		// Decomposed e + combining acute composes to the same key as the precomposed form.
		{"Jose\u0301", "jos\u00e9"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "NormalizeName(%q)", tc.in)
	}
}
