package httpapi

import (
	"errors"
	"net/http"

	"guestbook/cmd/internal/dashboard"
	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/httpx"
	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/internal/rsvp"
)

func (h *Handler) handleInvites(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodPost) {
		return
	}
	var req inviteRequest
	if err := httpx.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.obs.InviteLookup(LookupInvalid)
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parties, err := h.dir.FindPartiesByLastName(r.Context(), req.LastName)
	var ambiguous guests.AmbiguousMatchError
	switch {
	case err == nil:
		h.obs.InviteLookup(LookupFound)
		httpx.WriteJSON(w, http.StatusOK, inviteResponse{Party: parties[0]})
	case errors.As(err, &ambiguous):
		h.obs.InviteLookup(LookupMultiple)
		httpx.WriteJSON(w, http.StatusOK, inviteMultipleResponse{Parties: ambiguous.Candidates, Multiple: true})
	case kinds.IsValidation(err):
		h.obs.InviteLookup(LookupInvalid)
		httpx.WriteError(w, http.StatusBadRequest, httpx.MessageFor(err))
	case kinds.IsStorage(err):
		h.obs.InviteLookup(LookupError)
		h.log.Error("invites.lookup.fail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MessageFor(err))
	default:
		h.obs.InviteLookup(LookupNotFound)
		httpx.WriteError(w, httpx.StatusFor(err), httpx.MessageFor(err))
	}
}

func (h *Handler) handleParties(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodGet) {
		return
	}
	parties, err := h.dir.ListParties(r.Context())
	if err != nil {
		h.log.Error("parties.list.fail", "err", err)
		httpx.WriteDataError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	httpx.WriteData(w, toPartyRows(parties))
}

func (h *Handler) handleRSVPs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.reads(http.HandlerFunc(h.listRSVPs)).ServeHTTP(w, r)
	case http.MethodPost:
		h.submitRSVPs(w, r)
	default:
		httpx.AllowMethods(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) listRSVPs(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rsvps.List(r.Context())
	if err != nil {
		h.log.Error("rsvp.list.fail", "err", err)
		httpx.WriteDataError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	httpx.WriteData(w, nonNil(rows))
}

func (h *Handler) submitRSVPs(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.rsvps.Submit(r.Context(), rsvp.SubmitInput{
		PartyID:     req.PartyID,
		LastName:    req.LastName,
		Email:       req.Email,
		Members:     req.MemberRSVPs,
		MemberNames: req.MemberNames,
	})
	if err != nil {
		if !kinds.IsValidation(err) {
			h.log.Error("rsvp.submit.fail", "err", err)
		}
		httpx.WriteError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, submitResponse{Data: nonNil(res.Records), IsUpdate: res.IsUpdate})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodGet) {
		return
	}
	var f rsvp.HistoryFilter
	if err := h.query.Decode(&f, r.URL.Query()); err != nil {
		httpx.WriteDataError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	entries, err := h.rsvps.History(r.Context(), f)
	if err != nil {
		h.log.Error("rsvp.history.query.fail", "err", err)
		httpx.WriteDataError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	httpx.WriteData(w, nonNil(entries))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	parties, err := h.dir.ListParties(ctx)
	if err != nil {
		h.log.Error("dashboard.parties.fail", "err", err)
		httpx.WriteDataError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	rows, err := h.rsvps.List(ctx)
	if err != nil {
		h.log.Error("dashboard.rsvps.fail", "err", err)
		httpx.WriteDataError(w, httpx.StatusFor(err), httpx.MessageFor(err))
		return
	}
	httpx.WriteData(w, dashboard.BuildDashboard(parties, rows))
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
