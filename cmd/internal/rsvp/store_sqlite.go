package rsvp

import (
	"context"
	"database/sql"
	"strings"

	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/internal/sqlitedb"
)

// SQLiteStore persists RSVP rows and history in the local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore constructs a SQLiteStore over a handle from sqlitedb.Open.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, kinds.Invalid("db", "sqlite handle is required")
	}
	return &SQLiteStore{db: db}, nil
}

// ListRSVPs implements RowStore.
func (s *SQLiteStore) ListRSVPs(ctx context.Context) ([]RSVP, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+rsvpColumns+` FROM rsvps ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectSQLiteRSVPs(rows)
}

// ListByParty implements RowStore.
func (s *SQLiteStore) ListByParty(ctx context.Context, partyID string) ([]RSVP, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+rsvpColumns+` FROM rsvps WHERE party_id = ? ORDER BY created_at, id`, partyID)
	if err != nil {
		return nil, err
	}
	return collectSQLiteRSVPs(rows)
}

// InsertRSVP implements RowStore.
func (s *SQLiteStore) InsertRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvps (`+rsvpColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PartyID, r.LastName, r.MemberID, r.MemberName, r.Name,
		r.Email, r.IsAttending, r.DietaryRestrictions,
		sqlitedb.FormatTime(r.CreatedAt), sqlitedb.FormatTimePtr(r.UpdatedAt),
	)
	if err != nil {
		return RSVP{}, err
	}
	return s.get(ctx, r.ID)
}

// UpdateRSVP implements RowStore.
func (s *SQLiteStore) UpdateRSVP(ctx context.Context, r RSVP) (RSVP, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rsvps
		    SET party_id = ?, last_name = ?, member_id = ?, member_name = ?,
		        email = ?, is_attending = ?, dietary_restrictions = ?, updated_at = ?
		  WHERE id = ?`,
		r.PartyID, r.LastName, r.MemberID, r.MemberName,
		r.Email, r.IsAttending, r.DietaryRestrictions, sqlitedb.FormatTimePtr(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return RSVP{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return RSVP{}, kinds.OpError{Op: "rsvp.SQLiteStore.UpdateRSVP", Kind: kinds.ErrNotFound, Msg: r.ID}
	}
	return s.get(ctx, r.ID)
}

func (s *SQLiteStore) get(ctx context.Context, id string) (RSVP, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+rsvpColumns+` FROM rsvps WHERE id = ?`, id)
	if err != nil {
		return RSVP{}, err
	}
	out, err := collectSQLiteRSVPs(rows)
	if err != nil {
		return RSVP{}, err
	}
	if len(out) == 0 {
		return RSVP{}, kinds.OpError{Op: "rsvp.SQLiteStore.get", Kind: kinds.ErrNotFound, Msg: id}
	}
	return out[0], nil
}

// AppendHistory implements HistoryStore. The batch is one transaction.
func (s *SQLiteStore) AppendHistory(ctx context.Context, entries []HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(historyColumnNames)), ", ")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rsvp_history (`+historyColumns+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		prev, err := encodePrevious(e.PreviousValues)
		if err != nil {
			return err
		}
		var prevText *string
		if prev != nil {
			prevText = strPtr(string(prev))
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.RSVPID, e.PartyID, e.LastName, e.MemberID, e.MemberName,
			e.Email, e.IsAttending, e.DietaryRestrictions, string(e.Action),
			sqlitedb.FormatTime(e.ChangedAt), prevText,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QueryHistory implements HistoryStore.
func (s *SQLiteStore) QueryHistory(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	var (
		where []string
		args  []any
	)
	for _, c := range []struct{ col, v string }{
		{"rsvp_id", f.RSVPID},
		{"party_id", f.PartyID},
		{"email", f.Email},
	} {
		if c.v != "" {
			where = append(where, c.col+" = ?")
			args = append(args, c.v)
		}
	}
	q := `SELECT ` + historyColumns + ` FROM rsvp_history`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY changed_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			action    string
			changedAt string
			prev      sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RSVPID, &e.PartyID, &e.LastName, &e.MemberID, &e.MemberName,
			&e.Email, &e.IsAttending, &e.DietaryRestrictions, &action, &changedAt, &prev); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		if e.ChangedAt, err = sqlitedb.ParseTime(changedAt); err != nil {
			return nil, err
		}
		if prev.Valid {
			if e.PreviousValues, err = decodePrevious([]byte(prev.String)); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func collectSQLiteRSVPs(rows *sql.Rows) ([]RSVP, error) {
	defer rows.Close()

	var out []RSVP
	for rows.Next() {
		var (
			r         RSVP
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.PartyID, &r.LastName, &r.MemberID, &r.MemberName, &r.Name,
			&r.Email, &r.IsAttending, &r.DietaryRestrictions, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		var err error
		if r.CreatedAt, err = sqlitedb.ParseTime(createdAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = sqlitedb.ParseTimePtr(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
