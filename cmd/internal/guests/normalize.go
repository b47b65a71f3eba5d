package guests

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a surname for comparison: trim, NFC, then Unicode case folding.
// It never strips or rewrites letters, so matching stays exact after normalization.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	// cases.Caser is stateful; build one per call.
	return cases.Fold().String(s)
}
