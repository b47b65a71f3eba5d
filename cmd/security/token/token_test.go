package token

import (
	"bytes"
	"errors"
	"testing"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestDeriveKeyIsPurposeBound(t *testing.T) {
	t.Parallel()

	a, err := DeriveKey(secret, PurposeLinkHash, 32)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, err := DeriveKey(secret, PurposeSessionSign, 32)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("keys for different purposes must differ")
	}
	again, _ := DeriveKey(secret, PurposeLinkHash, 32)
	if !bytes.Equal(a, again) {
		t.Fatalf("DeriveKey must be deterministic")
	}
	if len(a) != 32 {
		t.Fatalf("len=%d want=32", len(a))
	}
}

func TestDeriveKeyRejectsWeakSecrets(t *testing.T) {
	t.Parallel()

	if _, err := DeriveKey(nil, PurposeLinkHash, 32); !errors.Is(err, ErrKeyMissing) {
		t.Fatalf("DeriveKey(nil)=%v want=%v", err, ErrKeyMissing)
	}
	if _, err := DeriveKey([]byte("short"), PurposeLinkHash, 32); !errors.Is(err, ErrKeyTooShort) {
		t.Fatalf("DeriveKey(short)=%v want=%v", err, ErrKeyTooShort)
	}
}

func TestHasher(t *testing.T) {
	t.Parallel()

	plain := NewHasher(nil)
	if plain.Keyed() {
		t.Fatalf("empty key must not be keyed")
	}
	if got, want := plain.Hash("abc"), HashSHA256Hex("abc"); got != want {
		t.Fatalf("Hash=%q want=%q", got, want)
	}

	keyed := NewHasher(secret)
	h := keyed.Hash("abc")
	if len(h) != 64 || h == plain.Hash("abc") {
		t.Fatalf("unexpected keyed hash %q", h)
	}
}

func TestNewOpaqueAndEqual(t *testing.T) {
	t.Parallel()

	a, err := NewOpaque(32)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	b, _ := NewOpaque(32)
	if a == b || len(a) != 43 {
		t.Fatalf("NewOpaque returned %q and %q", a, b)
	}
	if !Equal(a, a) || Equal(a, b) || Equal("", "") {
		t.Fatalf("Equal mismatch")
	}
}
