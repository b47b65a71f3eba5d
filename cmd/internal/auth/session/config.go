package session

import (
	"net/http"
	"strings"
	"time"
)

// Config defines runtime configuration for admin sessions.
type Config struct {
	// Issuer and Audience are set on and required from every token.
	Issuer   string
	Audience string

	// TTL is the session lifetime.
	TTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	ClockSkew time.Duration

	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// DefaultConfig returns a configuration suitable for development.
func DefaultConfig() Config {
	return Config{
		Issuer:         "guestbook",
		Audience:       "guestbook-admin",
		TTL:            12 * time.Hour,
		ClockSkew:      30 * time.Second,
		CookieName:     "guestbook_session",
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// Validate returns ErrConfig if cfg cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Issuer) == "" || strings.TrimSpace(c.Audience) == "" {
		return ErrConfig
	}
	if c.TTL <= 0 || c.ClockSkew < 0 {
		return ErrConfig
	}
	if strings.TrimSpace(c.CookieName) == "" {
		return ErrConfig
	}
	return nil
}
