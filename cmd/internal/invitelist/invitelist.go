// Package invitelist loads the wedding invite list from YAML and turns it into roster rows,
// either directly through a guests.Store or as a Postgres import script.
package invitelist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/kinds"
)

// List is the top-level invite-list document:
//
//	parties:
//	  - lastName: Smith
//	    members:
//	      - firstName: John
//	      - firstName: Jane
//	        lastName: Smith-Jones
type List struct {
	Parties []Party `yaml:"parties"`
}

// Party is one invited household. ID is optional.
type Party struct {
	ID       string   `yaml:"id,omitempty"`
	LastName string   `yaml:"lastName"`
	Members  []Member `yaml:"members"`
}

// Member is one invited person. LastName defaults to the party's.
type Member struct {
	ID        string `yaml:"id,omitempty"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName,omitempty"`
}

// Load decodes and validates a list. Unknown keys are rejected.
func Load(r io.Reader) (List, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l List
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return List{}, kinds.Invalid("parties", "invite list is empty")
		}
		return List{}, fmt.Errorf("invitelist: decode: %w", err)
	}
	l = l.normalized()
	if err := l.Validate(); err != nil {
		return List{}, err
	}
	return l, nil
}

// LoadFile is Load for a path.
func LoadFile(path string) (List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("invitelist: %w", err)
	}
	return Load(bytes.NewReader(b))
}

func (l List) normalized() List {
	out := List{Parties: make([]Party, 0, len(l.Parties))}
	for _, p := range l.Parties {
		np := Party{
			ID:       strings.TrimSpace(p.ID),
			LastName: strings.TrimSpace(p.LastName),
			Members:  make([]Member, 0, len(p.Members)),
		}
		for _, m := range p.Members {
			nm := Member{
				ID:        strings.TrimSpace(m.ID),
				FirstName: strings.TrimSpace(m.FirstName),
				LastName:  strings.TrimSpace(m.LastName),
			}
			if nm.LastName == "" {
				nm.LastName = np.LastName
			}
			np.Members = append(np.Members, nm)
		}
		out.Parties = append(out.Parties, np)
	}
	return out
}

// Validate reports every structural problem at once.
func (l List) Validate() error {
	if len(l.Parties) == 0 {
		return kinds.Invalid("parties", "invite list has no parties")
	}
	var errs []error
	for i, p := range l.Parties {
		if strings.TrimSpace(p.LastName) == "" {
			errs = append(errs, kinds.Invalid(fmt.Sprintf("parties[%d].lastName", i), "last name is required"))
		}
		if len(p.Members) == 0 {
			errs = append(errs, kinds.Invalid(fmt.Sprintf("parties[%d].members", i), "at least one member is required"))
		}
		for j, m := range p.Members {
			if strings.TrimSpace(m.FirstName) == "" {
				errs = append(errs, kinds.Invalid(fmt.Sprintf("parties[%d].members[%d].firstName", i, j), "first name is required"))
			}
			if strings.TrimSpace(m.LastName) == "" && strings.TrimSpace(p.LastName) == "" {
				errs = append(errs, kinds.Invalid(fmt.Sprintf("parties[%d].members[%d].lastName", i, j), "last name is required"))
			}
		}
	}
	return errors.Join(errs...)
}

// Result counts imported rows.
type Result struct {
	Parties int
	Members int
}

// Import inserts every party through store, stopping at the first failure.
func Import(ctx context.Context, store guests.Store, l List) (Result, error) {
	if store == nil {
		return Result{}, kinds.Invalid("store", "store is nil")
	}
	if err := l.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, p := range l.Parties {
		in := guests.CreatePartyInput{ID: p.ID, LastName: p.LastName}
		for _, m := range p.Members {
			in.Members = append(in.Members, guests.CreateMemberInput{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
		}
		created, err := store.CreateParty(ctx, in)
		if err != nil {
			return res, fmt.Errorf("invitelist: party %d (%s): %w", i+1, p.LastName, err)
		}
		res.Parties++
		res.Members += len(created.Members)
	}
	return res, nil
}
