package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guestbook/cmd/internal/rsvp"
)

// Metrics owns a dedicated Prometheus registry. It implements the observer hooks of the
// RSVP service, the data API and the auth API.
type Metrics struct {
	reg *prometheus.Registry

	submissions     *prometheus.CounterVec
	rows            *prometheus.CounterVec
	historyFailures prometheus.Counter
	inviteLookups   *prometheus.CounterVec
	linksSent       prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics registers the guestbook collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guestbook_rsvp_submissions_total",
			Help: "RSVP submissions by whether the party had responded before.",
		}, []string{"kind"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guestbook_rsvp_rows_total",
			Help: "Member RSVP rows by reconciliation outcome.",
		}, []string{"outcome"}),
		historyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guestbook_rsvp_history_failures_total",
			Help: "History batches that failed to persist.",
		}),
		inviteLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guestbook_invite_lookups_total",
			Help: "Invite lookups by result.",
		}, []string{"result"}),
		linksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guestbook_magic_links_sent_total",
			Help: "Admin sign-in links sent.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guestbook_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.rows, m.historyFailures, m.inviteLookups, m.linksSent, m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// SubmissionRecorded implements rsvp.Observer.
func (m *Metrics) SubmissionRecorded(isUpdate bool) {
	kind := "created"
	if isUpdate {
		kind = "updated"
	}
	m.submissions.WithLabelValues(kind).Inc()
}

// RowReconciled implements rsvp.Observer.
func (m *Metrics) RowReconciled(o rsvp.Outcome) { m.rows.WithLabelValues(string(o)).Inc() }

// HistoryWriteFailed implements rsvp.Observer.
func (m *Metrics) HistoryWriteFailed() { m.historyFailures.Inc() }

// InviteLookup implements httpapi.Observer.
func (m *Metrics) InviteLookup(result string) { m.inviteLookups.WithLabelValues(result).Inc() }

// MagicLinkSent implements the auth API observer.
func (m *Metrics) MagicLinkSent() { m.linksSent.Inc() }
