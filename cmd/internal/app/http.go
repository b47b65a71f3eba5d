package app

import (
	"net/http"

	"github.com/NYTimes/gziphandler"

	authapi "guestbook/cmd/internal/auth/api"
	"guestbook/cmd/internal/httpapi"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	backend *Backend,
	metrics *Metrics,
	auth *authapi.Handler,
	data *httpapi.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireDB {
			if err := backend.Ping(r.Context()); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				log.Info("readyz.db.not_ready", "backend", backend.Name, "err", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	// JSON routes share one sub-mux so they can be compressed together.
	api := http.NewServeMux()
	auth.Register(api)
	data.Register(api)
	mux.Handle("/api/", gziphandler.GzipHandler(api))
}
