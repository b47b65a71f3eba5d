// Package app wires the guestbook server runtime: config, logging, storage, metrics and HTTP routes.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	authapi "guestbook/cmd/internal/auth/api"
	"guestbook/cmd/internal/auth/magiclink"
	"guestbook/cmd/internal/auth/session"
	"guestbook/cmd/internal/guests"
	"guestbook/cmd/internal/httpapi"
	"guestbook/cmd/internal/rsvp"
	"guestbook/cmd/security/token"
)

// App is the guestbook server runtime: it owns the backend, services and HTTP wiring.
type App struct {
	cfg Config
	log Logger

	backend *Backend
	metrics *Metrics

	auth *authapi.Handler
	data *httpapi.Handler
}

// New constructs a fully wired App from config. The backend is opened here and closed by Run.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log, _ = NewLogger(LogConfigFrom(cfg))
	}

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := newWithBackend(cfg, log, backend, NewMetrics())
	if err != nil {
		backend.Close()
		return nil, err
	}
	return a, nil
}

func newWithBackend(cfg Config, log Logger, backend *Backend, metrics *Metrics) (*App, error) {
	keys, err := DeriveKeys(cfg)
	if err != nil {
		return nil, err
	}
	if keys.Ephemeral {
		log.Warn("security.secret.ephemeral", "effect", "admin sessions end on restart", "key", EnvPrefix+"SECRET")
	}

	dir, err := guests.NewDirectory(backend.Guests, guests.WithLogger(log))
	if err != nil {
		return nil, err
	}
	rsvps, err := rsvp.NewService(backend.RSVPs, rsvp.WithLogger(log), rsvp.WithObserver(metrics))
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return nil, err
	}
	links, err := magiclink.NewService(backend.Links, mailer,
		magiclink.WithHasher(token.NewHasher(keys.LinkHash)),
		magiclink.WithTTL(cfg.MagicLinkTTL),
		magiclink.WithSiteURL(cfg.SiteURL),
		magiclink.WithFrom(cfg.MailFrom),
		magiclink.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	sessCfg := session.DefaultConfig()
	sessCfg.TTL = cfg.SessionTTL
	sessCfg.CookieName = cfg.SessionCookieName
	sessCfg.CookieSecure = cfg.CookieSecure
	sessions, err := session.NewManager(keys.SessionSign, sessCfg)
	if err != nil {
		return nil, err
	}

	auth, err := authapi.NewHandler(log, links, sessions, authapi.Config{
		AdminEmail:   cfg.AdminEmail,
		SiteURL:      cfg.SiteURL,
		TrustProxy:   cfg.TrustProxy,
		MaxBodyBytes: cfg.MaxBodyBytes,
		LinkIPMax:    cfg.LinkIPMax,
		LinkIPWindow: cfg.LinkIPWindow,
	}, authapi.WithObserver(metrics))
	if err != nil {
		return nil, err
	}

	data, err := httpapi.NewHandler(log, dir, rsvps, httpapi.Config{
		MaxBodyBytes:         cfg.MaxBodyBytes,
		RequireAdminForReads: cfg.RequireAdminForReads,
	}, httpapi.WithAdminGate(auth.RequireAdmin), httpapi.WithObserver(metrics))
	if err != nil {
		return nil, err
	}

	return &App{cfg: cfg, log: log, backend: backend, metrics: metrics, auth: auth, data: data}, nil
}

func newMailer(cfg Config, log Logger) (magiclink.Mailer, error) {
	if cfg.MailWebhookURL == "" {
		log.Warn("auth.mailer.log_only", "effect", "sign-in links are written to the log")
		return magiclink.LogMailer{Log: log}, nil
	}
	return magiclink.NewWebhookMailer(cfg.MailWebhookURL, nil)
}

// Handler returns the full middleware-wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.backend, a.metrics, a.auth, a.data)
	return WithRequestLogging(WithMetrics(mux, a.metrics), a.log)
}

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	defer a.backend.Close()

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "backend", a.backend.Name)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
