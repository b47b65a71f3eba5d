package api

import "testing"

func TestConfigNormalized(t *testing.T) {
	cfg := Config{AdminEmail: "  Admin@Example.com ", SiteURL: "https://wedding.example.com///"}.normalized()

	if cfg.AdminEmail != "Admin@Example.com" {
		t.Fatalf("AdminEmail=%q", cfg.AdminEmail)
	}
	if cfg.SiteURL != "https://wedding.example.com" {
		t.Fatalf("SiteURL=%q", cfg.SiteURL)
	}
	if cfg.MaxBodyBytes != DefaultConfig().MaxBodyBytes || cfg.LinkIPWindow != DefaultConfig().LinkIPWindow {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestConfigIsAdmin(t *testing.T) {
	cfg := Config{AdminEmail: "admin@example.com"}.normalized()

	cases := map[string]bool{
		"admin@example.com":     true,
		" ADMIN@example.com  ":  true,
		"admin@example.org":     false,
		"":                      false,
	}
	for in, want := range cases {
		if got := cfg.isAdmin(in); got != want {
			t.Fatalf("isAdmin(%q)=%v want=%v", in, got, want)
		}
	}
	if (Config{}).isAdmin("") {
		t.Fatalf("unset admin must deny")
	}
}
