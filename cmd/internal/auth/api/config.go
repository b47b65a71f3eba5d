package api

import (
	"strings"
	"time"
)

// Config controls auth API behavior and security defaults.
type Config struct {
	// AdminEmail is the single address allowed to sign in. Empty disables sign-in.
	AdminEmail   string
	// SiteURL is where a verified browser is redirected (SiteURL + "/admin").
	SiteURL      string
	TrustProxy   bool
	MaxBodyBytes int64

	// LinkIPMax link requests are allowed per client IP within LinkIPWindow.
	LinkIPMax    int
	LinkIPWindow time.Duration
}

// DefaultConfig returns safe defaults. AdminEmail must still be set.
func DefaultConfig() Config {
	return Config{
		SiteURL:      "http://localhost:8080",
		MaxBodyBytes: 1 << 20, // 1 MiB
		LinkIPMax:    5,
		LinkIPWindow: 15 * time.Minute,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	if c.SiteURL == "" {
		c.SiteURL = def.SiteURL
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
	if c.LinkIPWindow <= 0 {
		c.LinkIPWindow = def.LinkIPWindow
	}
	return c
}

// isAdmin compares addresses trimmed and case-insensitively.
func (c Config) isAdmin(email string) bool {
	if c.AdminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), c.AdminEmail)
}
