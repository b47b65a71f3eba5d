// Package token provides the opaque-token primitives used by admin login.
//
// Login links carry a random base64url token; only its 64-char hex digest is stored.
// With a key the digest is HMAC-SHA256(token, key); without one it falls back to
// SHA-256(token), which is only acceptable for local development.
//
// Purpose-specific keys (link hashing, session signing) are derived from the single
// GUESTBOOK_SECRET with HKDF so that one leaked key does not expose the other.
package token
