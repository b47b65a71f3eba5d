// Package magiclink issues and redeems single-use admin login links.
package magiclink

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"guestbook/cmd/internal/ids"
	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/security/token"
)

const (
	defaultTokenBytes = 32
	defaultTTL        = 15 * time.Minute
	// VerifyPath is where the emailed link points.
	VerifyPath = "/api/auth/verify"
)

// Service creates, sends and consumes login links.
type Service struct {
	store      Store
	mailer     Mailer
	hasher     token.Hasher
	siteURL    string
	from       string
	ttl        time.Duration
	tokenBytes int
	now        func() time.Time
	log        *slog.Logger
}

// Option configures the Service.
type Option func(*Service) error

// WithHasher sets the token hasher (default: unkeyed SHA-256).
func WithHasher(h token.Hasher) Option {
	return func(s *Service) error {
		s.hasher = h
		return nil
	}
}

// WithTTL sets how long a link stays valid.
func WithTTL(d time.Duration) Option {
	return func(s *Service) error {
		if d <= 0 {
			return kinds.Invalid("ttl", "ttl must be positive")
		}
		s.ttl = d
		return nil
	}
}

// WithSiteURL sets the public base URL used to build links.
func WithSiteURL(raw string) Option {
	return func(s *Service) error {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return kinds.Invalid("siteURL", "site url must be absolute")
		}
		s.siteURL = strings.TrimRight(u.String(), "/")
		return nil
	}
}

// WithFrom sets the sender address passed to the mailer.
func WithFrom(from string) Option {
	return func(s *Service) error {
		s.from = strings.TrimSpace(from)
		return nil
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return kinds.Invalid("clock", "clock is nil")
		}
		s.now = now
		return nil
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) error {
		if log != nil {
			s.log = log
		}
		return nil
	}
}

// NewService constructs a Service with safe defaults.
func NewService(store Store, mailer Mailer, opts ...Option) (*Service, error) {
	if store == nil || mailer == nil {
		return nil, kinds.Invalid("", "magiclink: store and mailer are required")
	}
	s := &Service{
		store:      store,
		mailer:     mailer,
		siteURL:    "http://localhost:8080",
		ttl:        defaultTTL,
		tokenBytes: defaultTokenBytes,
		now:        func() time.Time { return time.Now().UTC() },
		log:        slog.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TTL reports the configured link lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// SiteURL reports the public base URL.
func (s *Service) SiteURL() string { return s.siteURL }

// Request stores a new link for email and mails it. Authorization of email is the caller's job.
//
// Storage failures are kinds.ErrStorage; mailer failures are SendError.
func (s *Service) Request(ctx context.Context, email string) (Link, error) {
	const op = "magiclink.Request"
	email = strings.TrimSpace(email)
	if email == "" {
		return Link{}, kinds.Invalid("email", "Email is required")
	}
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	plain, err := token.NewOpaque(s.tokenBytes)
	if err != nil {
		return Link{}, err
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return Link{}, err
	}

	link, err := s.store.Create(ctx, CreateRecord{
		ID:        id,
		Email:     email,
		TokenHash: s.hasher.Hash(plain),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return Link{}, kinds.Storage(op, err)
	}

	href := s.siteURL + VerifyPath + "?token=" + url.QueryEscape(plain)
	msg := newMessage(s.from, email, href, s.ttl)
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn("auth.magic_link.send.fail", "link_id", link.ID, "err", err)
		return Link{}, SendError{Err: err}
	}
	s.log.Info("auth.magic_link.sent", "link_id", link.ID, "expires_at", link.ExpiresAt)
	return link, nil
}

// Consume redeems a plain token. Unknown, expired and reused tokens return ErrNotFound or ErrNotActive.
func (s *Service) Consume(ctx context.Context, plain string) (Link, error) {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return Link{}, ErrNotFound
	}
	link, err := s.store.Consume(ctx, ConsumeRecord{
		TokenHash: s.hasher.Hash(plain),
		Now:       s.now().UTC(),
	})
	if err != nil {
		if IsInvalidLink(err) {
			return Link{}, err
		}
		return Link{}, kinds.Storage("magiclink.Consume", err)
	}
	return link, nil
}
