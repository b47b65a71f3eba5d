// Package migrations embeds the Postgres schema and applies it to a target schema.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

const schemaPlaceholder = "{{schema}}"

// Render returns every migration, in file order, with the schema placeholder substituted.
func Render(schema string) ([]string, error) {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return nil, fmt.Errorf("migrations: empty schema")
	}
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	ident := pgx.Identifier{schema}.Sanitize()
	out := make([]string, 0, len(names))
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("migrations: read %s: %w", name, err)
		}
		out = append(out, strings.ReplaceAll(string(b), schemaPlaceholder, ident))
	}
	return out, nil
}

// Apply runs every migration against pool. Statements are idempotent.
func Apply(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if pool == nil {
		return fmt.Errorf("migrations: nil pool")
	}
	scripts, err := Render(schema)
	if err != nil {
		return err
	}
	for i, script := range scripts {
		if _, err := pool.Exec(ctx, script); err != nil {
			return fmt.Errorf("migrations: apply #%d: %w", i+1, err)
		}
	}
	return nil
}
