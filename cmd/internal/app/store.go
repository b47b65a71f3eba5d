package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"guestbook/cmd/internal/auth/magiclink"
	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/rsvp"
	"guestbook/cmd/internal/sqlitedb"
	"guestbook/db/migrations"
)

// Backend bundles the stores of one storage engine and owns its connection lifecycle.
type Backend struct {
	Name   string
	Guests guests.Store
	RSVPs  rsvp.Store
	Links  magiclink.Store

	ping  func(ctx context.Context) error
	close func()
}

// Ping reports whether the backing database answers.
func (b *Backend) Ping(ctx context.Context) error {
	if b == nil || b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases pools and file handles.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// OpenBackend decides between Postgres (DatabaseURL set) and the SQLite file store.
func OpenBackend(ctx context.Context, cfg Config, log Logger) (*Backend, error) {
	if cfg.DatabaseURL == "" {
		return openSQLite(ctx, cfg, log)
	}
	return openPostgres(ctx, cfg, log)
}

func openPostgres(ctx context.Context, cfg Config, log Logger) (*Backend, error) {
	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, pool, cfg.DBSchema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		log.Info("db.migrate.ok", "schema", cfg.DBSchema)
	}

	b, err := postgresBackend(pool, cfg.DBSchema)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema)
	return b, nil
}

func postgresBackend(pool *pgxpool.Pool, schema string) (*Backend, error) {
	gs, err := guests.NewPostgresStore(pool, guests.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	rs, err := rsvp.NewPostgresStore(pool, rsvp.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	ls, err := magiclink.NewPostgresStore(pool, magiclink.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	return &Backend{
		Name:   "postgres",
		Guests: gs,
		RSVPs:  rs,
		Links:  ls,
		ping:   func(ctx context.Context) error { return PingDB(ctx, pool, 2*time.Second) },
		close:  pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg Config, log Logger) (*Backend, error) {
	db, err := sqlitedb.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	b, err := sqliteBackend(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("db.enabled.sqlite_store", "path", cfg.SQLitePath)
	return b, nil
}

// sqliteBackend keeps login links in memory; they only need to outlive one sign-in.
func sqliteBackend(db *sql.DB) (*Backend, error) {
	gs, err := guests.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	rs, err := rsvp.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Name:   "sqlite",
		Guests: gs,
		RSVPs:  rs,
		Links:  magiclink.NewMemoryStore(),
		ping: func(ctx context.Context) error {
			pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return db.PingContext(pctx)
		},
		close: func() { _ = db.Close() },
	}, nil
}
