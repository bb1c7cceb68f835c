package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

func TestPgConversions(t *testing.T) {
	if got := toPgText("  "); got.Valid {
		t.Errorf("toPgText(blank) = %+v, want invalid", got)
	}
	if got := toPgText(" x "); !got.Valid || got.String != "x" {
		t.Errorf("toPgText(\" x \") = %+v, want valid \"x\"", got)
	}

	if got, err := toPgInt4(45); err != nil || !got.Valid || got.Int32 != 45 {
		t.Errorf("toPgInt4(45) = %+v, %v, want valid 45", got, err)
	}
	if got, err := toPgInt4(4294967326); err == nil {
		t.Errorf("toPgInt4(4294967326) = %+v, want out of range error", got)
	}

	if got := toPgTimestamptz(nil); got.Valid {
		t.Errorf("toPgTimestamptz(nil) = %+v, want invalid", got)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := toPgTimestamptz(&now)
	if back := fromPgTimestamptz(ts); back == nil || !back.Equal(now) {
		t.Errorf("timestamp round trip = %v, want %v", back, now)
	}
	if back := fromPgTimestamptz(pgtype.Timestamptz{}); back != nil {
		t.Errorf("fromPgTimestamptz(invalid) = %v, want nil", back)
	}

	id := uuid.New()
	if got := uuidToString(pgtype.UUID{Bytes: id, Valid: true}); got != id.String() {
		t.Errorf("uuidToString() = %q, want %q", got, id.String())
	}
	if got := uuidToString(pgtype.UUID{}); got != "" {
		t.Errorf("uuidToString(invalid) = %q, want empty", got)
	}
}

// TestPostgres_CreateAndList runs against a real database when
// TEST_DATABASE_URL is set.
func TestPostgres_CreateAndList(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := OpenPostgres(ctx, url, PoolOptions{MaxConns: 2})
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer pool.Close()

	p := NewPostgres(pool)
	if err := p.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	owner := "test-" + uuid.NewString()
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM study_sessions WHERE owner_id = $1", owner)
	})

	created, err := p.Create(ctx, owner, core.SessionDraft{
		Title:           "Go",
		Category:        core.CategoryProgramming,
		DurationMinutes: 60,
		Tags:            []string{"go"},
		ScheduledFor:    "2024-01-15T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := p.Create(ctx, owner, core.SessionDraft{Title: "x", Category: core.CategoryOther, DurationMinutes: 5, Priority: "asap"}); err == nil {
		t.Error("Create() with unknown priority succeeded, want check violation")
	}

	listed, err := p.List(ctx, owner, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID || listed[0].Tags[0] != "go" {
		t.Errorf("List() = %+v, want the created session", listed)
	}
}
