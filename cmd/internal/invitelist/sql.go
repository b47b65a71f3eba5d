package invitelist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
)

// WriteImportSQL writes a single PL/pgSQL block that inserts every party and its members into
// schema. Parties get database-generated ids captured into partyN_id variables.
func WriteImportSQL(w io.Writer, l List, schema string) error {
	if err := l.Validate(); err != nil {
		return err
	}
	schema = strings.TrimSpace(schema)
	if schema == "" {
		schema = "guestbook"
	}
	parties := pgx.Identifier{schema, "parties"}.Sanitize()
	members := pgx.Identifier{schema, "party_members"}.Sanitize()

	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format+"\n", args...) }

	p("-- Generated guestbook import script")
	p("-- Run after the schema migration has been applied.")
	p("")
	p("DO $$")
	p("DECLARE")
	for i := range l.Parties {
		p("  party%d_id TEXT;", i+1)
	}
	p("BEGIN")
	p("")
	for i, party := range l.Parties {
		v := fmt.Sprintf("party%d_id", i+1)
		firsts := make([]string, 0, len(party.Members))
		for _, m := range party.Members {
			firsts = append(firsts, m.FirstName)
		}
		p("  -- Party %d: %s (%s)", i+1, sqlComment(party.LastName), sqlComment(strings.Join(firsts, " & ")))
		p("  INSERT INTO %s (last_name) VALUES (%s) RETURNING id INTO %s;", parties, quote(party.LastName), v)
		p("  INSERT INTO %s (party_id, first_name, last_name, position) VALUES", members)
		for j, m := range party.Members {
			sep := ","
			if j == len(party.Members)-1 {
				sep = ";"
			}
			p("    (%s, %s, %s, %d)%s", v, quote(m.FirstName), quote(m.LastName), j, sep)
		}
		p("")
	}
	p("END $$;")
	return bw.Flush()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlComment keeps a value on one comment line.
func sqlComment(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
