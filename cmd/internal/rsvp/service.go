package rsvp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"guestbook/cmd/internal/ids"
	"guestbook/cmd/internal/kinds"
)

// UnknownMemberName is recorded when a submission carries no display name for a member.
const UnknownMemberName = "Unknown"

// MissingFieldsMessage is the validation message for an incomplete submission.
const MissingFieldsMessage = "Missing required fields: partyId, lastName, email, and memberRsvps"

// Outcome classifies what a submission did to one member's row.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// Observer receives reconciliation events (metrics).
type Observer interface {
	SubmissionRecorded(isUpdate bool)
	RowReconciled(outcome Outcome)
	HistoryWriteFailed()
}

type nopObserver struct{}

func (nopObserver) SubmissionRecorded(bool) {}
func (nopObserver) RowReconciled(Outcome)   {}
func (nopObserver) HistoryWriteFailed()     {}

// SubmitInput is a party's RSVP submission.
//
// Members must be non-nil; an empty slice is a valid submission that writes nothing.
type SubmitInput struct {
	PartyID     string
	LastName    string
	Email       string
	Members     []MemberResponse
	MemberNames map[string]string
}

// SubmitResult is the per-member rows (new, updated and unchanged) plus the party-level update flag.
type SubmitResult struct {
	Records  []RSVP
	IsUpdate bool
}

// Service is the RSVP Reconciler and the read side of the RSVP history.
type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
	obs   Observer
}

// Option configures the Service.
type Option func(*Service) error

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) error {
		if log == nil {
			return kinds.Invalid("logger", "logger is nil")
		}
		s.log = log
		return nil
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return kinds.Invalid("clock", "clock is nil")
		}
		s.now = now
		return nil
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) error {
		if o != nil {
			s.obs = o
		}
		return nil
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, kinds.Invalid("store", "store is nil")
	}
	s := &Service{
		store: store,
		log:   slog.Default(),
		now:   func() time.Time { return time.Now().UTC() },
		obs:   nopObserver{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (in SubmitInput) normalize() (SubmitInput, error) {
	in.PartyID = strings.TrimSpace(in.PartyID)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if in.PartyID == "" || in.LastName == "" || in.Email == "" || in.Members == nil {
		return SubmitInput{}, kinds.Invalid("", MissingFieldsMessage)
	}
	in.Members = append(make([]MemberResponse, 0, len(in.Members)), in.Members...)
	for i := range in.Members {
		in.Members[i].MemberID = strings.TrimSpace(in.Members[i].MemberID)
		if in.Members[i].MemberID == "" {
			return SubmitInput{}, kinds.Invalid(fmt.Sprintf("memberRsvps[%d].memberId", i), "memberId is required")
		}
	}
	return in, nil
}

func (in SubmitInput) memberName(memberID string) string {
	name := NormalizeText(in.MemberNames[memberID])
	if name == "" {
		return UnknownMemberName
	}
	return name
}

// Submit merges a party's submission into the stored rows.
//
// isUpdate is decided once, from whether the party had any rows before this call. Each member is
// then reconciled independently: a new row is inserted (history "created"), a row whose
// attendance, dietary restrictions or email differ is overwritten (history "updated" with the
// prior values), and an identical row is returned untouched with no history.
//
// A row write failure aborts the call; rows already written stay written. History is appended
// as one batch at the end and a failure there is logged and swallowed.
//
// Concurrent submissions for the same party are not serialized. Each reads its own snapshot of
// the party's rows, so two racing calls can both insert a row for a member or lose one update
// and write mismatched history. Household RSVPs make that contention unlikely; a fix would wrap
// the per-member upsert in a transaction keyed on (party_id, member_id).
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	const op = "rsvp.Submit"
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return SubmitResult{}, err
	}

	existing, err := s.store.ListByParty(ctx, in.PartyID)
	if err != nil {
		return SubmitResult{}, kinds.Storage(op, err)
	}
	isUpdate := len(existing) > 0

	byMember := make(map[string]RSVP, len(existing))
	for _, r := range existing {
		if r.MemberID == nil {
			continue
		}
		if _, seen := byMember[*r.MemberID]; !seen {
			byMember[*r.MemberID] = r
		}
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	records := make([]RSVP, 0, len(in.Members))
	var history []HistoryEntry

	for _, mr := range in.Members {
		name := in.memberName(mr.MemberID)
		diet := NormalizeDietary(mr.DietaryRestrictions)

		cur, found := byMember[mr.MemberID]
		if found && !hasChanges(cur, mr.IsAttending, diet, in.Email) {
			records = append(records, cur)
			s.obs.RowReconciled(OutcomeUnchanged)
			continue
		}

		next := RSVP{
			PartyID:             strPtr(in.PartyID),
			LastName:            strPtr(in.LastName),
			MemberID:            strPtr(mr.MemberID),
			MemberName:          strPtr(name),
			Email:               in.Email,
			IsAttending:         mr.IsAttending,
			DietaryRestrictions: diet,
		}

		var (
			saved  RSVP
			entry  HistoryEntry
			action = ActionCreated
		)
		if found {
			action = ActionUpdated
			next.ID = cur.ID
			next.Name = cur.Name
			next.CreatedAt = cur.CreatedAt
			next.UpdatedAt = &now
			saved, err = s.store.UpdateRSVP(ctx, next)
			entry.PreviousValues = &PreviousValues{
				IsAttending:         cur.IsAttending,
				DietaryRestrictions: cur.DietaryRestrictions,
				Email:               cur.Email,
			}
		} else {
			next.ID = ids.NewUUID()
			next.CreatedAt = now
			saved, err = s.store.InsertRSVP(ctx, next)
		}
		if err != nil {
			s.log.Error("rsvp.row.write.fail", "party_id", in.PartyID, "member_id", mr.MemberID, "action", string(action), "err", err)
			return SubmitResult{}, kinds.Storage(op, err)
		}

		byMember[mr.MemberID] = saved
		records = append(records, saved)
		s.obs.RowReconciled(Outcome(action))

		entry.RSVPID = saved.ID
		entry.PartyID = saved.PartyID
		entry.LastName = saved.LastName
		entry.MemberID = saved.MemberID
		entry.MemberName = saved.MemberName
		entry.Email = saved.Email
		entry.IsAttending = saved.IsAttending
		entry.DietaryRestrictions = saved.DietaryRestrictions
		entry.Action = action
		entry.ChangedAt = now
		history = append(history, entry)
	}

	if len(history) > 0 {
		if err := s.appendHistory(ctx, history, now); err != nil {
			s.obs.HistoryWriteFailed()
			s.log.Warn("rsvp.history.insert.fail", "party_id", in.PartyID, "entries", len(history), "err", err)
		}
	}

	s.obs.SubmissionRecorded(isUpdate)
	s.log.Info("rsvp.submit.ok", "party_id", in.PartyID, "is_update", isUpdate, "rows", len(records), "history", len(history))
	return SubmitResult{Records: records, IsUpdate: isUpdate}, nil
}

func (s *Service) appendHistory(ctx context.Context, entries []HistoryEntry, now time.Time) error {
	for i := range entries {
		id, err := ids.NewULID(now)
		if err != nil {
			return err
		}
		entries[i].ID = id
	}
	return s.store.AppendHistory(ctx, entries)
}

// hasChanges compares the tracked fields. Stored dietary text is normalized the same way as
// submitted text so legacy empty strings compare equal to an omitted value.
func hasChanges(cur RSVP, isAttending bool, diet *string, email string) bool {
	return cur.IsAttending != isAttending ||
		!equalOptional(NormalizeDietary(cur.DietaryRestrictions), diet) ||
		cur.Email != email
}

// List returns every RSVP row, newest first.
func (s *Service) List(ctx context.Context) ([]RSVP, error) {
	rows, err := s.store.ListRSVPs(ctx)
	if err != nil {
		return nil, kinds.Storage("rsvp.List", err)
	}
	if rows == nil {
		rows = []RSVP{}
	}
	return rows, nil
}

// History returns history entries matching f, newest first.
func (s *Service) History(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	f.RSVPID = strings.TrimSpace(f.RSVPID)
	f.PartyID = strings.TrimSpace(f.PartyID)
	f.Email = strings.TrimSpace(f.Email)

	out, err := s.store.QueryHistory(ctx, f)
	if err != nil {
		return nil, kinds.Storage("rsvp.History", err)
	}
	if out == nil {
		out = []HistoryEntry{}
	}
	return out, nil
}
