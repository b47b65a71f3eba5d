package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.HTTPAddr != "0.0.0.0:8080" || cfg.DBSchema != "guestbook" || cfg.SQLitePath != "guestbook.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MagicLinkTTL != 15*time.Minute || cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected ttl defaults: link=%v session=%v", cfg.MagicLinkTTL, cfg.SessionTTL)
	}
	if cfg.RequireAdminForReads || !cfg.CookieSecure {
		t.Fatalf("unexpected security defaults: %+v", cfg)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("GUESTBOOK_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("GUESTBOOK_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("GUESTBOOK_SESSION_TTL", "2h")
	t.Setenv("GUESTBOOK_DB_MAX_CONNS", "-3")
	t.Setenv("GUESTBOOK_REQUIRE_ADMIN_FOR_READS", "true")
	t.Setenv("GUESTBOOK_LOG_FORMAT", "PRETTY")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.AdminEmail != "admin@example.com" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL=%v", cfg.SessionTTL)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("invalid value must fall back: DBMaxConns=%d", cfg.DBMaxConns)
	}
	if !cfg.RequireAdminForReads || cfg.LogFormat != "pretty" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GUESTBOOK_TEST_DOTENV=from-file\nGUESTBOOK_TEST_DOTENV_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("GUESTBOOK_TEST_DOTENV_KEEP", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("GUESTBOOK_TEST_DOTENV") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("GUESTBOOK_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("GUESTBOOK_TEST_DOTENV=%q", got)
	}
	if got := os.Getenv("GUESTBOOK_TEST_DOTENV_KEEP"); got != "from-process" {
		t.Fatalf("process env must win, got %q", got)
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("GUESTBOOK_TEST_LIST", " a.env, ,b.env ")
	got := EnvList("GUESTBOOK_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a.env" || got[1] != "b.env" {
		t.Fatalf("EnvList=%v", got)
	}
	if def := EnvList("GUESTBOOK_TEST_LIST_UNSET", []string{".env"}); len(def) != 1 {
		t.Fatalf("EnvList default=%v", def)
	}
}
