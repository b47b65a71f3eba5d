package session

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate()=%v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"no issuer", func(c *Config) { c.Issuer = " " }},
		{"no audience", func(c *Config) { c.Audience = "" }},
		{"zero ttl", func(c *Config) { c.TTL = 0 }},
		{"negative skew", func(c *Config) { c.ClockSkew = -time.Second }},
		{"no cookie", func(c *Config) { c.CookieName = "" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.edit(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: Validate()=%v want=%v", tc.name, err, ErrConfig)
		}
	}
}
