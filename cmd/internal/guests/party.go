// Package guests holds the invitation roster (parties and their members) and the
// Party Directory used by guests to find their invitation by last name.
package guests

import (
	"fmt"
	"strings"
	"time"

	"guestbook/cmd/internal/ids"
	"guestbook/cmd/internal/kinds"
)

// Member is one invited person. Members are immutable once imported.
type Member struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName is "First Last", skipping blank parts.
func (m Member) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
}

// Party is an invited household. It owns its ordered member list.
type Party struct {
	ID        string    `json:"id"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	Members   []Member  `json:"members"`
}

// MemberNames maps member id to display name.
func (p Party) MemberNames() map[string]string {
	out := make(map[string]string, len(p.Members))
	for _, m := range p.Members {
		out[m.ID] = m.DisplayName()
	}
	return out
}

// HasMember reports whether id belongs to the party.
func (p Party) HasMember(id string) bool {
	for _, m := range p.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// CreatePartyInput describes a roster insert. Empty ids are generated by the store.
type CreatePartyInput struct {
	ID        string
	LastName  string
	CreatedAt time.Time
	Members   []CreateMemberInput
}

// CreateMemberInput describes one member of a CreatePartyInput.
type CreateMemberInput struct {
	ID        string
	FirstName string
	LastName  string
}

// prepare validates in and fills generated ids, default member last names and the creation time.
func (in CreatePartyInput) prepare(now time.Time) (CreatePartyInput, error) {
	out := CreatePartyInput{
		ID:        strings.TrimSpace(in.ID),
		LastName:  strings.TrimSpace(in.LastName),
		CreatedAt: in.CreatedAt,
		Members:   make([]CreateMemberInput, 0, len(in.Members)),
	}
	if out.LastName == "" {
		return CreatePartyInput{}, kinds.Invalid("lastName", "party last name is required")
	}
	if len(in.Members) == 0 {
		return CreatePartyInput{}, kinds.Invalid("members", "party needs at least one member")
	}
	if out.ID == "" {
		out.ID = ids.NewUUID()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	// Postgres keeps microseconds.
	out.CreatedAt = out.CreatedAt.UTC().Truncate(time.Microsecond)

	for i, m := range in.Members {
		m.ID = strings.TrimSpace(m.ID)
		m.FirstName = strings.TrimSpace(m.FirstName)
		m.LastName = strings.TrimSpace(m.LastName)
		if m.FirstName == "" {
			return CreatePartyInput{}, kinds.Invalid(fmt.Sprintf("members[%d].firstName", i), "first name is required")
		}
		if m.LastName == "" {
			m.LastName = out.LastName
		}
		if m.ID == "" {
			m.ID = ids.NewUUID()
		}
		out.Members = append(out.Members, m)
	}
	return out, nil
}

func (in CreatePartyInput) party() Party {
	p := Party{ID: in.ID, LastName: in.LastName, CreatedAt: in.CreatedAt, Members: make([]Member, 0, len(in.Members))}
	for _, m := range in.Members {
		p.Members = append(p.Members, Member{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
	}
	return p
}
