// Package dashboard aggregates RSVP rows against the party roster for the admin view.
package dashboard

import (
	"time"

	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/rsvp"
)

// PartyStatus is a party with its matched RSVP rows and response summary.
type PartyStatus struct {
	guests.Party
	RSVPs               []rsvp.RSVP `json:"rsvps"`
	HasResponded        bool        `json:"hasResponded"`
	AllMembersResponded bool        `json:"allMembersResponded"`
	AttendingCount      int         `json:"attendingCount"`
	TotalMembers        int         `json:"totalMembers"`
	Email               *string     `json:"email,omitempty"`
	LastUpdated         *time.Time  `json:"lastUpdated,omitempty"`
}

// Dashboard is the admin summary.
type Dashboard struct {
	Parties             []PartyStatus `json:"parties"`
	Records             []Record      `json:"records"`
	TotalParties        int           `json:"totalParties"`
	RespondedParties    int           `json:"respondedParties"`
	NotRespondedParties int           `json:"notRespondedParties"`
	TotalAttending      int           `json:"totalAttending"`
}

// BuildDashboard joins parties against rows. Party order is preserved and each party's rows
// keep the order of rows.
//
// Email is the first matched row's email, so it depends on the order the store returned rows in.
func BuildDashboard(parties []guests.Party, rows []rsvp.RSVP) Dashboard {
	byParty := make(map[string][]rsvp.RSVP, len(parties))
	for _, r := range rows {
		if r.PartyID == nil {
			continue
		}
		byParty[*r.PartyID] = append(byParty[*r.PartyID], r)
	}

	out := Dashboard{
		Parties: make([]PartyStatus, 0, len(parties)),
		Records: GroupRecords(rows),
	}
	for _, p := range parties {
		st := Status(p, byParty[p.ID])
		out.Parties = append(out.Parties, st)
		if st.HasResponded {
			out.RespondedParties++
		}
		out.TotalAttending += st.AttendingCount
	}
	out.TotalParties = len(parties)
	out.NotRespondedParties = out.TotalParties - out.RespondedParties
	return out
}

// Status summarizes one party given the rows already matched to it.
func Status(p guests.Party, matched []rsvp.RSVP) PartyStatus {
	if matched == nil {
		matched = []rsvp.RSVP{}
	}
	st := PartyStatus{
		Party:        p,
		RSVPs:        matched,
		HasResponded: len(matched) > 0,
		TotalMembers: len(p.Members),
	}

	responded := make(map[string]struct{}, len(matched))
	var last time.Time
	for _, r := range matched {
		if r.MemberID != nil {
			responded[*r.MemberID] = struct{}{}
		}
		if r.IsAttending {
			st.AttendingCount++
		}
		if t := r.LastTouched(); t.After(last) {
			last = t
		}
	}

	if st.HasResponded {
		email := matched[0].Email
		st.Email = &email
		st.LastUpdated = &last
	}

	st.AllMembersResponded = st.TotalMembers > 0
	for _, m := range p.Members {
		if _, ok := responded[m.ID]; !ok {
			st.AllMembersResponded = false
			break
		}
	}
	return st
}
