package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"guestbook/cmd/internal/kinds"
	"guestbook/cmd/security/token"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if u.Path != VerifyPath {
		t.Fatalf("link path=%q want=%q", u.Path, VerifyPath)
	}
	return u.Query().Get("token")
}

func newTestService(t *testing.T, st Store, m Mailer, now *time.Time) *Service {
	t.Helper()
	svc, err := NewService(st, m,
		WithSiteURL("https://wedding.example.com/"),
		WithHasher(token.NewHasher([]byte("0123456789abcdef0123456789abcdef"))),
		WithClock(func() time.Time { return *now }),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRequestThenConsumeOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	mailer := &recordingMailer{}
	svc := newTestService(t, NewMemoryStore(), mailer, &now)
	ctx := context.Background()

	link, err := svc.Request(ctx, "  admin@example.com ")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if link.Email != "admin@example.com" {
		t.Fatalf("email=%q", link.Email)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent=%d want=1", len(mailer.sent))
	}
	plain := tokenFromLink(t, mailer.sent[0].Link)
	if plain == "" {
		t.Fatalf("missing token in %q", mailer.sent[0].Link)
	}

	now = now.Add(5 * time.Minute)
	got, err := svc.Consume(ctx, plain)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.ConsumedAt == nil || got.Email != "admin@example.com" {
		t.Fatalf("unexpected link %+v", got)
	}

	if _, err := svc.Consume(ctx, plain); !errors.Is(err, ErrNotActive) {
		t.Fatalf("second Consume err=%v want=%v", err, ErrNotActive)
	}
	if _, err := svc.Consume(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Consume(bogus) err=%v want=%v", err, ErrNotFound)
	}
}

func TestConsumeExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	mailer := &recordingMailer{}
	svc := newTestService(t, NewMemoryStore(), mailer, &now)

	if _, err := svc.Request(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	now = now.Add(defaultTTL)
	_, err := svc.Consume(context.Background(), tokenFromLink(t, mailer.sent[0].Link))
	if !IsInvalidLink(err) {
		t.Fatalf("expected invalid link, got %v", err)
	}
}

func TestRequestMailerFailure(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := newTestService(t, NewMemoryStore(), &recordingMailer{err: errors.New("smtp down")}, &now)

	_, err := svc.Request(context.Background(), "admin@example.com")
	var se SendError
	if !errors.As(err, &se) {
		t.Fatalf("expected SendError, got %v", err)
	}
}

func TestRequestValidation(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := newTestService(t, NewMemoryStore(), &recordingMailer{}, &now)
	if _, err := svc.Request(context.Background(), " "); !kinds.IsValidation(err) {
		t.Fatalf("Request(blank) err=%v", err)
	}

	if _, err := NewService(NewMemoryStore(), &recordingMailer{}, WithSiteURL("not a url")); err == nil {
		t.Fatalf("expected relative site url to be rejected")
	}
	if _, err := NewService(nil, &recordingMailer{}); err == nil {
		t.Fatalf("expected nil store to be rejected")
	}
}

func TestWebhookMailer(t *testing.T) {
	t.Parallel()

	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got.To == "fail@example.com" {
			http.Error(w, "mailbox unavailable", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := NewWebhookMailer(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewWebhookMailer: %v", err)
	}
	if err := m.Send(context.Background(), Message{To: "admin@example.com", Link: "https://x/y"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.To != "admin@example.com" || got.Link != "https://x/y" {
		t.Fatalf("relay received %+v", got)
	}
	if err := m.Send(context.Background(), Message{To: "fail@example.com"}); err == nil {
		t.Fatalf("expected non-2xx to fail")
	}

	if _, err := NewWebhookMailer("ftp://relay", nil); err == nil {
		t.Fatalf("expected non-http url to be rejected")
	}
	if _, err := NewWebhookMailer("https://relay.example.com/send", nil); err != nil {
		t.Fatalf("NewWebhookMailer(default client): %v", err)
	}
}
