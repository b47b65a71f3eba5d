// Package rsvp stores per-member RSVP rows, reconciles resubmissions against them and keeps
// the append-only RSVP history.
package rsvp

import "time"

// RSVP is one member's attendance response. Rows written before party grouping existed
// have no PartyID/MemberID and carry the guest's free-text Name instead.
type RSVP struct {
	ID                  string     `json:"id"`
	PartyID             *string    `json:"party_id"`
	LastName            *string    `json:"last_name"`
	MemberID            *string    `json:"member_id"`
	MemberName          *string    `json:"member_name"`
	Name                *string    `json:"name,omitempty"`
	Email               string     `json:"email"`
	IsAttending         bool       `json:"is_attending"`
	DietaryRestrictions *string    `json:"dietary_restrictions"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

// IsLegacy reports whether the row predates party grouping.
func (r RSVP) IsLegacy() bool {
	return emptyStr(r.PartyID) && emptyStr(r.LastName)
}

// LastTouched is UpdatedAt, or CreatedAt for rows never updated.
func (r RSVP) LastTouched() time.Time {
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	return r.CreatedAt
}

// Action tags a HistoryEntry.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// PreviousValues are the tracked fields of a row before an update.
type PreviousValues struct {
	IsAttending         bool    `json:"is_attending"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	Email               string  `json:"email"`
}

// HistoryEntry is an immutable audit record of one RSVP creation or change.
// PreviousValues is nil for ActionCreated.
type HistoryEntry struct {
	ID                  string          `json:"id"`
	RSVPID              string          `json:"rsvp_id"`
	PartyID             *string         `json:"party_id"`
	LastName            *string         `json:"last_name"`
	MemberID            *string         `json:"member_id"`
	MemberName          *string         `json:"member_name"`
	Email               string          `json:"email"`
	IsAttending         bool            `json:"is_attending"`
	DietaryRestrictions *string         `json:"dietary_restrictions"`
	Action              Action          `json:"action"`
	ChangedAt           time.Time       `json:"changed_at"`
	PreviousValues      *PreviousValues `json:"previous_values"`
}

// HistoryFilter narrows a history query. Set fields are ANDed; the zero value matches everything.
type HistoryFilter struct {
	RSVPID  string `schema:"rsvp_id"`
	PartyID string `schema:"party_id"`
	Email   string `schema:"email"`
}

func (f HistoryFilter) matches(e HistoryEntry) bool {
	if f.RSVPID != "" && e.RSVPID != f.RSVPID {
		return false
	}
	if f.PartyID != "" && (e.PartyID == nil || *e.PartyID != f.PartyID) {
		return false
	}
	if f.Email != "" && e.Email != f.Email {
		return false
	}
	return true
}

// MemberResponse is one member's answer within a submission.
type MemberResponse struct {
	MemberID            string  `json:"memberId"`
	IsAttending         bool    `json:"isAttending"`
	DietaryRestrictions *string `json:"dietaryRestrictions,omitempty"`
}

func strPtr(s string) *string { return &s }

func emptyStr(p *string) bool { return p == nil || *p == "" }
