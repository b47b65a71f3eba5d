package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_PlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))
	log.With("component", "rsvp").Info("rsvp.submit.ok",
		"party_id", "p-1",
		"status", 201,
		"duration_ms", int64(12),
		"note", "two words",
	)

	got := buf.String()
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=rsvp.submit.ok",
		"component=rsvp",
		"party_id=p-1",
		"status=201",
		"duration=12ms",
		`note="two words"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("plain output must not contain ANSI codes: %q", got)
	}
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))
	log.Info("dropped")
	log.Warn("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "lvl=[WARN] msg=kept") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrettyHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false))
	log.WithGroup("http").Info("x", slog.Group("req", "method", "get"))

	if !strings.Contains(buf.String(), "http.req.method=get") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestColorizeStatusCode(t *testing.T) {
	t.Parallel()

	if got := colorizeStatusCode(503, true); got != ansiRed+"503"+ansiReset {
		t.Fatalf("colorizeStatusCode(503)=%q", got)
	}
	if got := colorizeStatusCode(200, false); got != "200" {
		t.Fatalf("colorizeStatusCode(200, plain)=%q", got)
	}
}

func TestPrettyHandler_AttrsKeepTheirGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false))
	log.With("component", "auth").WithGroup("link").Info("auth.link.sent", "ttl", "15m0s")

	got := buf.String()
	if !strings.Contains(got, " component=auth") || !strings.Contains(got, " link.ttl=15m0s") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrettyHandler_ColorsOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, true))
	log.Info("rsvp.row", "outcome", "created", "method", "post")

	got := buf.String()
	if !strings.Contains(got, "outcome="+ansiGreen+"created"+ansiReset) {
		t.Fatalf("outcome not coloured: %q", got)
	}
	if !strings.Contains(got, "method="+ansiGreen+"POST"+ansiReset) {
		t.Fatalf("method not coloured: %q", got)
	}
}
