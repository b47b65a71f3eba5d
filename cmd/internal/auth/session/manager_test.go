package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T, now *time.Time) *Manager {
	t.Helper()
	m, err := NewManager(testKey, DefaultConfig(), WithClock(func() time.Time { return *now }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	raw, s, err := m.Issue("admin@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(raw, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", raw)
	}

	now = now.Add(time.Hour)
	got, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Email != "admin@example.com" || got.ID != s.ID || !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Fatalf("Verify=%+v want=%+v", got, s)
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)
	raw, _, err := m.Issue("admin@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewManager([]byte("ffffffffffffffffffffffffffffffff"), DefaultConfig(), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := other.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong key: err=%v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin@example.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none: err=%v", err)
	}

	if _, err := m.Verify(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty: err=%v", err)
	}

	now = now.Add(DefaultConfig().TTL + time.Minute)
	if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: err=%v", err)
	}
}

func TestNewManagerRejectsShortKey(t *testing.T) {
	t.Parallel()

	if _, err := NewManager([]byte("short"), DefaultConfig()); !errors.Is(err, ErrConfig) {
		t.Fatalf("NewManager(short)=%v want=%v", err, ErrConfig)
	}
}
