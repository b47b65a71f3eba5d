package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleList = `parties:
  - lastName: Garcia
    members:
      - firstName: Ana
      - firstName: Luis
  - lastName: O'Neil
    members:
      - firstName: Sam
`

func writeList(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invites.yaml")
	if err := os.WriteFile(path, []byte(sampleList), 0o600); err != nil {
		t.Fatalf("write list: %v", err)
	}
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"serve", "import", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q): %v", name, err)
		}
		if sub.Name() != name {
			t.Fatalf("Find(%q) resolved to %q", name, sub.Name())
		}
	}
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.PersistentFlags().Lookup("env-file") == nil {
		t.Fatalf("missing persistent flag --env-file")
	}

	for sub, flags := range map[string][]string{
		"import":  {"sql", "schema"},
		"migrate": {"print", "schema"},
		"serve":   {"addr"},
	} {
		c, _, err := cmd.Find([]string{sub})
		if err != nil {
			t.Fatalf("Find(%q): %v", sub, err)
		}
		for _, name := range flags {
			if c.Flags().Lookup(name) == nil {
				t.Fatalf("%s: missing flag --%s", sub, name)
			}
		}
	}
}

func TestImport_RequiresFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing file argument to fail")
	}
}

func TestImport_SQL(t *testing.T) {
	path := writeList(t)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--sql", "--schema", "wedding", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	sql := out.String()
	for _, want := range []string{
		`INSERT INTO "wedding"."parties" (last_name) VALUES ('Garcia')`,
		`'O''Neil'`,
		"END $$;",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("script missing %q:\n%s", want, sql)
		}
	}
}

func TestImport_SQLite(t *testing.T) {
	path := writeList(t)
	t.Setenv("GUESTBOOK_DATABASE_URL", "")
	t.Setenv("GUESTBOOK_SQLITE_PATH", filepath.Join(t.TempDir(), "guestbook.db"))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--env-file", filepath.Join(t.TempDir(), "none.env"), path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := out.String(); got != "imported 2 parties (3 members)\n" {
		t.Fatalf("output=%q", got)
	}
}

func TestImport_InvalidList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("parties:\n  - lastName: Garcia\n    members: []\n"), 0o600); err != nil {
		t.Fatalf("write list: %v", err)
	}

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--sql", path})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected invalid list to fail")
	}
}

func TestMigrate_Print(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--print", "--schema", "wedding"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), `"wedding"`) {
		t.Fatalf("rendered SQL missing schema: %s", out.String())
	}
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("GUESTBOOK_DATABASE_URL", "")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err=%v want DATABASE_URL error", err)
	}
}
