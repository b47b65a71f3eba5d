package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"guestbook/cmd/internal/ids"
)

// MinKeyBytes is the minimum HS256 signing key length.
const MinKeyBytes = 32

// Session is a verified admin session.
type Session struct {
	ID        string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager signs and verifies session tokens.
type Manager struct {
	key []byte
	cfg Config
	now func() time.Time
}

// Option configures the Manager.
type Option func(*Manager) error

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) error {
		if now == nil {
			return ErrConfig
		}
		m.now = now
		return nil
	}
}

// NewManager constructs a Manager. key must be at least MinKeyBytes long.
func NewManager(key []byte, cfg Config, opts ...Option) (*Manager, error) {
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("%w: signing key must be at least %d bytes", ErrConfig, MinKeyBytes)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		key: append([]byte(nil), key...),
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// Issue signs a session for email.
func (m *Manager) Issue(email string) (string, Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", Session{}, ErrInvalidToken
	}
	now := m.now().UTC().Truncate(time.Second)
	id, err := ids.NewULID(now)
	if err != nil {
		return "", Session{}, err
	}
	s := Session{ID: id, Email: email, IssuedAt: now, ExpiresAt: now.Add(m.cfg.TTL)}

	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.Email,
		Issuer:    m.cfg.Issuer,
		Audience:  jwt.ClaimStrings{m.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
		NotBefore: jwt.NewNumericDate(s.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", Session{}, err
	}
	return signed, s, nil
}

// Verify parses and validates a token. Every failure is reported as ErrInvalidToken.
func (m *Manager) Verify(raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.cfg.ClockSkew),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return Session{}, ErrInvalidToken
	}

	s := Session{ID: claims.ID, Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC()}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return s, nil
}
