package magiclink

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guestbook/cmd/internal/kinds"
)

// PostgresStore persists login links in PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// StoreOption configures PostgresStore.
type StoreOption func(*PostgresStore) error

// WithSchema sets the DB schema used by the store (default: "guestbook").
func WithSchema(schema string) StoreOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return kinds.Invalid("schema", "schema is required")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "guestbook"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, kinds.Invalid("pool", "postgres pool is required")
	}
	return st, nil
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, in CreateRecord) (Link, error) {
	links := pgIdent(s.schema, "magic_links")
	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+links+` (id, email, token_hash, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.Email, in.TokenHash, in.CreatedAt, in.ExpiresAt,
	)
	if err != nil {
		return Link{}, err
	}
	return Link{ID: in.ID, Email: in.Email, CreatedAt: in.CreatedAt, ExpiresAt: in.ExpiresAt}, nil
}

// Consume implements Store.
func (s *PostgresStore) Consume(ctx context.Context, in ConsumeRecord) (Link, error) {
	links := pgIdent(s.schema, "magic_links")

	var out Link
	err := s.pool.QueryRow(ctx,
		`UPDATE `+links+`
		    SET consumed_at = $1
		  WHERE token_hash = $2
		    AND consumed_at IS NULL
		    AND expires_at > $1
		RETURNING id, email, created_at, expires_at, consumed_at`,
		in.Now, in.TokenHash,
	).Scan(&out.ID, &out.Email, &out.CreatedAt, &out.ExpiresAt, &out.ConsumedAt)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Link{}, err
	}

	// Distinguish not-found vs not-active.
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+links+` WHERE token_hash = $1)`, in.TokenHash,
	).Scan(&exists); err != nil {
		return Link{}, err
	}
	if exists {
		return Link{}, ErrNotActive
	}
	return Link{}, ErrNotFound
}

func pgIdent(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}
