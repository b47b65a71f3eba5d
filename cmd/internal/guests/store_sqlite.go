package guests

import (
	"context"
	"database/sql"
	"time"

	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/internal/sqlitedb"
)

// SQLiteStore keeps the roster in the local SQLite database opened by sqlitedb.Open.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore constructs a SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, kinds.Invalid("db", "sqlite handle is required")
	}
	return &SQLiteStore{db: db}, nil
}

// ListParties implements Store.
func (s *SQLiteStore) ListParties(ctx context.Context) ([]Party, error) {
	const op = "guests.SQLiteStore.ListParties"

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.last_name, p.created_at, m.id, m.first_name, m.last_name
		   FROM parties p
		   LEFT JOIN party_members m ON m.party_id = p.id
		  ORDER BY p.last_name, p.created_at, p.id, m.position, m.id`)
	if err != nil {
		return nil, kinds.Storage(op, err)
	}
	defer rows.Close()

	var out []Party
	for rows.Next() {
		var (
			id, lastName, createdAt string
			mID, mFirst, mLast      sql.NullString
		)
		if err := rows.Scan(&id, &lastName, &createdAt, &mID, &mFirst, &mLast); err != nil {
			return nil, kinds.Storage(op, err)
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			created, err := sqlitedb.ParseTime(createdAt)
			if err != nil {
				return nil, kinds.Storage(op, err)
			}
			out = append(out, Party{ID: id, LastName: lastName, CreatedAt: created, Members: []Member{}})
		}
		if mID.Valid {
			p := &out[len(out)-1]
			p.Members = append(p.Members, Member{ID: mID.String, FirstName: mFirst.String, LastName: mLast.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, kinds.Storage(op, err)
	}
	if out == nil {
		out = []Party{}
	}
	return out, nil
}

// CreateParty implements Store.
func (s *SQLiteStore) CreateParty(ctx context.Context, in CreatePartyInput) (Party, error) {
	const op = "guests.SQLiteStore.CreateParty"
	prepared, err := in.prepare(time.Now().UTC())
	if err != nil {
		return Party{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Party{}, kinds.Storage(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO parties (id, last_name, created_at) VALUES (?, ?, ?)`,
		prepared.ID, prepared.LastName, sqlitedb.FormatTime(prepared.CreatedAt),
	); err != nil {
		return Party{}, kinds.Storage(op, err)
	}
	for i, m := range prepared.Members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO party_members (id, party_id, first_name, last_name, position) VALUES (?, ?, ?, ?, ?)`,
			m.ID, prepared.ID, m.FirstName, m.LastName, i,
		); err != nil {
			return Party{}, kinds.Storage(op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Party{}, kinds.Storage(op, err)
	}
	return prepared.party(), nil
}
