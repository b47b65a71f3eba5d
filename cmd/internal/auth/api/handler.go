// Package api serves the admin sign-in routes and the admin gate used by the data API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"guestbook/cmd/internal/auth/magiclink"
	"guestbook/cmd/internal/auth/session"
	"guestbook/cmd/internal/httpx"
	"guestbook/cmd/internal/kinds"
)

const (
	msgAccessDenied = "Access denied. Only authorized users can sign in."
	msgGeneric      = "An error occurred. Please try again."
	msgLinkSent     = "Magic link sent successfully!"
	msgUnauthorized = "Unauthorized"
)

// Observer receives sign-in events (metrics).
type Observer interface {
	MagicLinkSent()
}

type nopObserver struct{}

func (nopObserver) MagicLinkSent() {}

// Handler wires HTTP auth endpoints to the magic-link service and session manager.
type Handler struct {
	log *slog.Logger
	cfg Config

	links    *magiclink.Service
	sessions *session.Manager
	limiter  *ipLimiter
	obs      Observer
	now      func() time.Time
}

// HandlerOption configures optional auth handler dependencies.
type HandlerOption func(*Handler)

// WithObserver sets the metrics observer.
func WithObserver(obs Observer) HandlerOption {
	return func(h *Handler) {
		if obs != nil {
			h.obs = obs
		}
	}
}

// WithClock overrides time.Now for rate limiting (tests).
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, links *magiclink.Service, sessions *session.Manager, cfg Config, opts ...HandlerOption) (*Handler, error) {
	if links == nil || sessions == nil {
		return nil, errors.New("auth: magic link service and session manager are required")
	}
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.normalized()

	h := &Handler{
		log:      log,
		cfg:      cfg,
		links:    links,
		sessions: sessions,
		limiter:  newIPLimiter(cfg.LinkIPMax, cfg.LinkIPWindow),
		obs:      nopObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if cfg.AdminEmail == "" {
		log.Warn("auth.admin_email.unset", "effect", "all sign-in attempts are denied")
	}
	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/auth", h.handleRequestLink)
	mux.HandleFunc(magiclink.VerifyPath, h.handleVerify)
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/session", h.handleSession)
}

// ---- handlers ----

func (h *Handler) handleRequestLink(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodPost) {
		return
	}

	var req linkRequest
	if err := httpx.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx := r.Context()
	ip := httpx.ClientIP(r, h.cfg.TrustProxy)
	ua := r.UserAgent()

	var ipKey string
	if ip != nil {
		ipKey = ip.String()
	}
	if ok, retryAfter := h.limiter.allow(ipKey, h.now()); !ok {
		h.auditLinkRateLimited(ctx, ip, ua, retryAfter)
		writeRateLimited(w, retryAfter)
		return
	}

	if !h.cfg.isAdmin(email) {
		h.auditLinkDenied(ctx, ip, ua)
		httpx.WriteError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	link, err := h.links.Request(ctx, h.cfg.AdminEmail)
	if err != nil {
		var sendErr magiclink.SendError
		switch {
		case errors.As(err, &sendErr):
			httpx.WriteError(w, http.StatusBadRequest, "Error sending magic link: "+sendErr.Err.Error())
		case kinds.IsValidation(err):
			httpx.WriteError(w, http.StatusBadRequest, httpx.MessageFor(err))
		default:
			h.log.Error("auth.link.request.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, msgGeneric)
		}
		return
	}

	h.obs.MagicLinkSent()
	h.auditLinkSent(ctx, link.ID, ip, ua)
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: msgLinkSent})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	ip := httpx.ClientIP(r, h.cfg.TrustProxy)
	ua := r.UserAgent()

	link, err := h.links.Consume(ctx, r.URL.Query().Get("token"))
	if err != nil {
		if magiclink.IsInvalidLink(err) {
			h.auditVerifyFailed(ctx, ip, ua, verifyFailReason(err))
			httpx.WriteError(w, http.StatusUnauthorized, "This sign-in link is invalid or has expired.")
			return
		}
		h.log.Error("auth.verify.consume.fail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgGeneric)
		return
	}
	// The admin may have changed since the link was issued.
	if !h.cfg.isAdmin(link.Email) {
		h.auditVerifyFailed(ctx, ip, ua, "not_admin")
		httpx.WriteError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	raw, sess, err := h.sessions.Issue(link.Email)
	if err != nil {
		h.log.Error("auth.verify.issue_session.fail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgGeneric)
		return
	}
	h.setSessionCookie(w, raw, sess.ExpiresAt)
	h.auditVerifySuccess(ctx, sess.ID, ip, ua)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, h.cfg.SiteURL+"/admin", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodPost) {
		return
	}
	if raw, ok := h.sessionToken(r); ok {
		if sess, err := h.sessions.Verify(raw); err == nil {
			h.auditLogout(r.Context(), sess.ID, httpx.ClientIP(r, h.cfg.TrustProxy), r.UserAgent())
		}
	}
	// Tokens are stateless; logout only clears the browser cookie.
	h.expireSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if !httpx.AllowMethods(w, r, http.MethodGet) {
		return
	}
	sess, ok := h.authenticate(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Email: sess.Email, ExpiresAt: sess.ExpiresAt})
}

// ---- admin gate ----

type sessionKey struct{}

// SessionFromContext returns the admin session stored by RequireAdmin.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}

// RequireAdmin rejects requests without a valid admin session: 401 when missing or invalid, 403 when the
// session belongs to an address that is no longer the admin.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := h.sessionToken(r)
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		sess, err := h.sessions.Verify(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if !h.cfg.isAdmin(sess.Email) {
			httpx.WriteError(w, http.StatusForbidden, msgAccessDenied)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (h *Handler) authenticate(r *http.Request) (session.Session, bool) {
	raw, ok := h.sessionToken(r)
	if !ok {
		return session.Session{}, false
	}
	sess, err := h.sessions.Verify(raw)
	if err != nil || !h.cfg.isAdmin(sess.Email) {
		return session.Session{}, false
	}
	return sess, true
}

func verifyFailReason(err error) string {
	switch {
	case errors.Is(err, magiclink.ErrNotActive):
		return "not_active"
	case errors.Is(err, magiclink.ErrNotFound):
		return "not_found"
	default:
		return "denied"
	}
}
