package rsvp

import "strings"

// NormalizeText trims guest-entered text. Everything else is stored as typed.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeDietary maps omitted, empty and blank values to nil.
func NormalizeDietary(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeText(*s)
	if v == "" {
		return nil
	}
	return &v
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
