package magiclink

import (
	"context"
	"errors"
	"testing"
	"time"

	"guestbook/cmd/internal/pgtest"
)

func TestPostgresStore_ConsumeOnce(t *testing.T) {
	t.Parallel()

	pool := pgtest.OpenPool(t)
	schema := pgtest.Schema(t, pool, "magiclink")

	st, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	mailer := &recordingMailer{}
	svc := newTestService(t, st, mailer, &now)
	ctx := context.Background()

	if _, err := svc.Request(ctx, "admin@example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	plain := tokenFromLink(t, mailer.sent[0].Link)

	if _, err := svc.Consume(ctx, plain); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if _, err := svc.Consume(ctx, plain); !errors.Is(err, ErrNotActive) {
		t.Fatalf("second Consume err=%v want=%v", err, ErrNotActive)
	}
	if _, err := svc.Consume(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Consume(missing) err=%v want=%v", err, ErrNotFound)
	}
}
