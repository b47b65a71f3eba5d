// Package httpapi serves the guest-facing invite/RSVP routes and the admin dashboard.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/httpx"
	"guestbook/cmd/internal/rsvp"
)

// Config controls data API behavior.
type Config struct {
	MaxBodyBytes int64
	// RequireAdminForReads puts the roster, RSVP list and history behind the admin gate.
	RequireAdminForReads bool
}

// Observer receives lookup outcomes (metrics).
type Observer interface {
	InviteLookup(result string)
}

type nopObserver struct{}

func (nopObserver) InviteLookup(string) {}

// Invite lookup results reported to the Observer.
const (
	LookupFound    = "found"
	LookupMultiple = "multiple"
	LookupNotFound = "not_found"
	LookupInvalid  = "invalid"
	LookupError    = "error"
)

// Handler wires the data routes to the directory and the RSVP service.
type Handler struct {
	log   *slog.Logger
	cfg   Config
	dir   *guests.Directory
	rsvps *rsvp.Service
	gate  func(http.Handler) http.Handler
	obs   Observer
	query *schema.Decoder
}

// HandlerOption configures optional dependencies.
type HandlerOption func(*Handler)

// WithAdminGate sets the middleware guarding admin routes. Without one, admin routes always answer 401.
func WithAdminGate(gate func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		if gate != nil {
			h.gate = gate
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(obs Observer) HandlerOption {
	return func(h *Handler) {
		if obs != nil {
			h.obs = obs
		}
	}
}

// NewHandler constructs a Handler.
func NewHandler(log *slog.Logger, dir *guests.Directory, rsvps *rsvp.Service, cfg Config, opts ...HandlerOption) (*Handler, error) {
	if dir == nil || rsvps == nil {
		return nil, errors.New("httpapi: directory and rsvp service are required")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = httpx.DefaultMaxBodyBytes
	}

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	h := &Handler{
		log:   log,
		cfg:   cfg,
		dir:   dir,
		rsvps: rsvps,
		gate:  denyAll,
		obs:   nopObserver{},
		query: dec,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// Register wires the data routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/invites", h.handleInvites)
	mux.Handle("/api/parties", h.reads(http.HandlerFunc(h.handleParties)))
	mux.HandleFunc("/api/rsvps", h.handleRSVPs)
	mux.Handle("/api/rsvps/history", h.reads(http.HandlerFunc(h.handleHistory)))
	mux.Handle("/api/admin/dashboard", h.gate(http.HandlerFunc(h.handleDashboard)))
}

// reads applies the admin gate when reads are restricted.
func (h *Handler) reads(next http.Handler) http.Handler {
	if !h.cfg.RequireAdminForReads {
		return next
	}
	return h.gate(next)
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
	})
}
