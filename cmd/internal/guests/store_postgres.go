package guests

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guestbook/cmd/internal/kinds"
)

// PostgresStore reads and writes the roster in PostgreSQL.
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

// ListParties implements Store. Members keep their import order.
func (s *PostgresStore) ListParties(ctx context.Context) ([]Party, error) {
	const op = "guests.PostgresStore.ListParties"
	parties := pgIdent(s.schema, "parties")
	members := pgIdent(s.schema, "party_members")

	rows, err := s.pool.Query(ctx,
		`SELECT id, last_name, created_at
		   FROM `+parties+`
		  ORDER BY last_name, created_at, id`)
	if err != nil {
		return nil, kinds.Storage(op, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Party, error) {
		var p Party
		err := row.Scan(&p.ID, &p.LastName, &p.CreatedAt)
		p.CreatedAt = p.CreatedAt.UTC()
		p.Members = []Member{}
		return p, err
	})
	if err != nil {
		return nil, kinds.Storage(op, err)
	}

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.ID] = i
	}

	mrows, err := s.pool.Query(ctx,
		`SELECT id, party_id, first_name, last_name
		   FROM `+members+`
		  ORDER BY party_id, position, id`)
	if err != nil {
		return nil, kinds.Storage(op, err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var (
			m       Member
			partyID string
		)
		if err := mrows.Scan(&m.ID, &partyID, &m.FirstName, &m.LastName); err != nil {
			return nil, kinds.Storage(op, err)
		}
		if i, ok := index[partyID]; ok {
			out[i].Members = append(out[i].Members, m)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, kinds.Storage(op, err)
	}
	return out, nil
}

// CreateParty implements Store. The party and all members are inserted in one transaction.
func (s *PostgresStore) CreateParty(ctx context.Context, in CreatePartyInput) (Party, error) {
	const op = "guests.PostgresStore.CreateParty"
	prepared, err := in.prepare(time.Now().UTC())
	if err != nil {
		return Party{}, err
	}
	parties := pgIdent(s.schema, "parties")
	members := pgIdent(s.schema, "party_members")

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Party{}, kinds.Storage(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO `+parties+` (id, last_name, created_at) VALUES ($1, $2, $3)`,
		prepared.ID, prepared.LastName, prepared.CreatedAt,
	); err != nil {
		return Party{}, kinds.Storage(op, err)
	}

	batch := &pgx.Batch{}
	for i, m := range prepared.Members {
		batch.Queue(
			`INSERT INTO `+members+` (id, party_id, first_name, last_name, position) VALUES ($1, $2, $3, $4, $5)`,
			m.ID, prepared.ID, m.FirstName, m.LastName, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return Party{}, kinds.Storage(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Party{}, kinds.Storage(op, err)
	}
	return prepared.party(), nil
}

func pgIdent(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}
