package httpapi

import (
	"time"

	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/rsvp"
)

type inviteRequest struct {
	LastName string `json:"lastName"`
}

type inviteResponse struct {
	Party guests.Party `json:"party"`
}

type inviteMultipleResponse struct {
	Parties  []guests.Party `json:"parties"`
	Multiple bool           `json:"multiple"`
}

type submitRequest struct {
	PartyID     string                `json:"partyId"`
	LastName    string                `json:"lastName"`
	Email       string                `json:"email"`
	MemberRSVPs []rsvp.MemberResponse `json:"memberRsvps"`
	MemberNames map[string]string     `json:"memberNames"`
}

type submitResponse struct {
	Data     []rsvp.RSVP `json:"data"`
	IsUpdate bool        `json:"isUpdate"`
	Error    *string     `json:"error"`
}

// partyRow is the roster shape served by /api/parties.
type partyRow struct {
	ID           string      `json:"id"`
	LastName     string      `json:"last_name"`
	CreatedAt    time.Time   `json:"created_at"`
	PartyMembers []memberRow `json:"party_members"`
}

type memberRow struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toPartyRows(parties []guests.Party) []partyRow {
	out := make([]partyRow, 0, len(parties))
	for _, p := range parties {
		members := make([]memberRow, 0, len(p.Members))
		for _, m := range p.Members {
			members = append(members, memberRow{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
		}
		out = append(out, partyRow{ID: p.ID, LastName: p.LastName, CreatedAt: p.CreatedAt, PartyMembers: members})
	}
	return out
}
