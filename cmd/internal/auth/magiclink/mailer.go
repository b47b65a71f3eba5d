package magiclink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Message is a login-link email.
type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
	Link    string `json:"link"`
}

// Mailer delivers login links.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes the link to the log instead of sending mail (local development).
type LogMailer struct {
	Log *slog.Logger
}

// Send implements Mailer.
func (m LogMailer) Send(_ context.Context, msg Message) error {
	log := m.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("auth.magic_link.logged", "to", msg.To, "link", msg.Link)
	return nil
}

// WebhookMailer posts each Message as JSON to an HTTP mail relay.
type WebhookMailer struct {
	url    string
	client *http.Client
}

// NewWebhookMailer returns a WebhookMailer for url. A nil client uses a pooled cleanhttp client
// with a 10s timeout.
func NewWebhookMailer(url string, client *http.Client) (*WebhookMailer, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("magiclink: webhook url must be http(s): %q", url)
	}
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
		client.Timeout = 10 * time.Second
	}
	return &WebhookMailer{url: url, client: client}, nil
}

// Send implements Mailer. Any non-2xx status is an error.
func (m *WebhookMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
