package rsvp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guestbook/cmd/internal/kinds"
)

const rsvpColumns = `id, party_id, last_name, member_id, member_name, name, email, is_attending, dietary_restrictions, created_at, updated_at`

var historyColumnNames = []string{
	"id", "rsvp_id", "party_id", "last_name", "member_id", "member_name",
	"email", "is_attending", "dietary_restrictions", "action", "changed_at", "previous_values",
}

var historyColumns = strings.Join(historyColumnNames, ", ")

// PostgresStore persists RSVP rows and history in PostgreSQL.
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

// ListRSVPs implements RowStore.
func (s *PostgresStore) ListRSVPs(ctx context.Context) ([]RSVP, error) {
	rsvps := pgIdent(s.schema, "rsvps")
	rows, err := s.pool.Query(ctx, `SELECT `+rsvpColumns+` FROM `+rsvps+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, collectRSVP)
}

// ListByParty implements RowStore.
func (s *PostgresStore) ListByParty(ctx context.Context, partyID string) ([]RSVP, error) {
	rsvps := pgIdent(s.schema, "rsvps")
	rows, err := s.pool.Query(ctx,
		`SELECT `+rsvpColumns+` FROM `+rsvps+` WHERE party_id = $1 ORDER BY created_at, id`,
		partyID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, collectRSVP)
}

// InsertRSVP implements RowStore.
func (s *PostgresStore) InsertRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	rsvps := pgIdent(s.schema, "rsvps")
	row := s.pool.QueryRow(ctx,
		`INSERT INTO `+rsvps+` (`+rsvpColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+rsvpColumns,
		r.ID, r.PartyID, r.LastName, r.MemberID, r.MemberName, r.Name,
		r.Email, r.IsAttending, r.DietaryRestrictions, r.CreatedAt, r.UpdatedAt,
	)
	return scanRSVPRow(row)
}

// UpdateRSVP implements RowStore.
func (s *PostgresStore) UpdateRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	rsvps := pgIdent(s.schema, "rsvps")
	row := s.pool.QueryRow(ctx,
		`UPDATE `+rsvps+`
		    SET party_id = $2,
		        last_name = $3,
		        member_id = $4,
		        member_name = $5,
		        email = $6,
		        is_attending = $7,
		        dietary_restrictions = $8,
		        updated_at = $9
		  WHERE id = $1
		RETURNING `+rsvpColumns,
		r.ID, r.PartyID, r.LastName, r.MemberID, r.MemberName,
		r.Email, r.IsAttending, r.DietaryRestrictions, r.UpdatedAt,
	)
	out, err := scanRSVPRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return RSVP{}, kinds.OpError{Op: "rsvp.PostgresStore.UpdateRSVP", Kind: kinds.ErrNotFound, Msg: r.ID}
	}
	return out, err
}

// AppendHistory implements HistoryStore. Entries are written with a single COPY.
func (s *PostgresStore) AppendHistory(ctx context.Context, entries []HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	src := make([][]any, 0, len(entries))
	for _, e := range entries {
		prev, err := encodePrevious(e.PreviousValues)
		if err != nil {
			return err
		}
		src = append(src, []any{
			e.ID, e.RSVPID, e.PartyID, e.LastName, e.MemberID, e.MemberName,
			e.Email, e.IsAttending, e.DietaryRestrictions, string(e.Action), e.ChangedAt, prev,
		})
	}
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{s.schema, "rsvp_history"},
		historyColumnNames,
		pgx.CopyFromRows(src),
	)
	return err
}

// QueryHistory implements HistoryStore.
func (s *PostgresStore) QueryHistory(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	history := pgIdent(s.schema, "rsvp_history")

	var (
		where []string
		args  []any
	)
	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		where = append(where, col+" = $"+strconv.Itoa(len(args)))
	}
	add("rsvp_id", f.RSVPID)
	add("party_id", f.PartyID)
	add("email", f.Email)

	q := `SELECT ` + historyColumns + ` FROM ` + history
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY changed_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (HistoryEntry, error) {
		var (
			e      HistoryEntry
			action string
			prev   []byte
		)
		err := row.Scan(&e.ID, &e.RSVPID, &e.PartyID, &e.LastName, &e.MemberID, &e.MemberName,
			&e.Email, &e.IsAttending, &e.DietaryRestrictions, &action, &e.ChangedAt, &prev)
		if err != nil {
			return HistoryEntry{}, err
		}
		e.Action = Action(action)
		e.ChangedAt = e.ChangedAt.UTC()
		e.PreviousValues, err = decodePrevious(prev)
		return e, err
	})
}

func collectRSVP(row pgx.CollectableRow) (RSVP, error) { return scanRSVPRow(row) }

func scanRSVPRow(row pgx.Row) (RSVP, error) {
	var r RSVP
	err := row.Scan(&r.ID, &r.PartyID, &r.LastName, &r.MemberID, &r.MemberName, &r.Name,
		&r.Email, &r.IsAttending, &r.DietaryRestrictions, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return RSVP{}, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.UTC()
		r.UpdatedAt = &t
	}
	return r, nil
}

func encodePrevious(p *PreviousValues) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func decodePrevious(b []byte) (*PreviousValues, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var p PreviousValues
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func pgIdent(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}
