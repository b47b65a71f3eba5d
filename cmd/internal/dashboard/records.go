package dashboard

import (
	"encoding/json"
	"strings"
	"time"

	"guestbook/cmd/internal/rsvp"
)

// RecordKind discriminates Record values in JSON.
type RecordKind string

const (
	KindParty  RecordKind = "party"
	KindLegacy RecordKind = "legacy"
)

// Record is either a PartyRecord (rows grouped by party) or a LegacyRecord (one row that
// predates party grouping).
type Record interface {
	Kind() RecordKind
	isRecord()
}

// MemberLine is one row rendered inside a record.
type MemberLine struct {
	RSVPID              string  `json:"rsvpId"`
	MemberID            *string `json:"memberId,omitempty"`
	Name                string  `json:"name"`
	IsAttending         bool    `json:"isAttending"`
	DietaryRestrictions *string `json:"dietaryRestrictions,omitempty"`
}

// PartyRecord groups rows sharing a party_id, or a last_name when party_id is missing.
type PartyRecord struct {
	PartyID   *string      `json:"partyId"`
	LastName  string       `json:"lastName"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"createdAt"`
	Members   []MemberLine `json:"members"`
}

func (PartyRecord) Kind() RecordKind { return KindParty }
func (PartyRecord) isRecord()        {}

// MarshalJSON adds the kind discriminator.
func (r PartyRecord) MarshalJSON() ([]byte, error) {
	type plain PartyRecord
	return json.Marshal(struct {
		Kind RecordKind `json:"kind"`
		plain
	}{KindParty, plain(r)})
}

// LegacyRecord is a single free-text-named row.
type LegacyRecord struct {
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	Member    MemberLine `json:"member"`
}

func (LegacyRecord) Kind() RecordKind { return KindLegacy }
func (LegacyRecord) isRecord()        {}

// MarshalJSON adds the kind discriminator.
func (r LegacyRecord) MarshalJSON() ([]byte, error) {
	type plain LegacyRecord
	return json.Marshal(struct {
		Kind RecordKind `json:"kind"`
		plain
	}{KindLegacy, plain(r)})
}

const (
	unknownName    = "Unknown"
	individualName = "Individual"
)

// GroupRecords groups rows in first-seen order. The first row of a group fixes its email and
// creation time.
func GroupRecords(rows []rsvp.RSVP) []Record {
	out := make([]Record, 0, len(rows))
	index := make(map[string]int)

	for _, r := range rows {
		if r.IsLegacy() {
			out = append(out, LegacyRecord{
				LastName:  legacyLastName(r.Name),
				Email:     r.Email,
				CreatedAt: r.CreatedAt,
				Member:    memberLine(r),
			})
			continue
		}

		key := groupKey(r)
		if i, ok := index[key]; ok {
			pr := out[i].(PartyRecord)
			pr.Members = append(pr.Members, memberLine(r))
			out[i] = pr
			continue
		}

		lastName := unknownName
		if r.LastName != nil && strings.TrimSpace(*r.LastName) != "" {
			lastName = *r.LastName
		}
		index[key] = len(out)
		out = append(out, PartyRecord{
			PartyID:   r.PartyID,
			LastName:  lastName,
			Email:     r.Email,
			CreatedAt: r.CreatedAt,
			Members:   []MemberLine{memberLine(r)},
		})
	}
	return out
}

func groupKey(r rsvp.RSVP) string {
	if r.PartyID != nil && *r.PartyID != "" {
		return "party:" + *r.PartyID
	}
	if r.LastName != nil && *r.LastName != "" {
		return "name:" + *r.LastName
	}
	return "unknown"
}

func memberLine(r rsvp.RSVP) MemberLine {
	return MemberLine{
		RSVPID:              r.ID,
		MemberID:            r.MemberID,
		Name:                displayName(r),
		IsAttending:         r.IsAttending,
		DietaryRestrictions: r.DietaryRestrictions,
	}
}

func displayName(r rsvp.RSVP) string {
	switch {
	case r.MemberName != nil && *r.MemberName != "":
		return *r.MemberName
	case r.Name != nil && *r.Name != "":
		return *r.Name
	default:
		return unknownName
	}
}

// legacyLastName is the last word of a free-text name.
func legacyLastName(name *string) string {
	if name == nil {
		return individualName
	}
	fields := strings.Fields(*name)
	if len(fields) == 0 {
		return individualName
	}
	return fields[len(fields)-1]
}
