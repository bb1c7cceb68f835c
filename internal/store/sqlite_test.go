package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_CreateAndList(t *testing.T) {
	s := openTestSQLite(t)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	draft := core.SessionDraft{
		Title:           "Algebra",
		Description:     "Chapter 3",
		Category:        core.CategorySchool,
		DurationMinutes: 45,
		Tags:            []string{"math", "exam"},
		ScheduledFor:    "2024-01-15T09:00:00+02:00",
	}

	created, err := s.Create(ctx, "owner-1", draft)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() returned empty id")
	}
	if created.Status != core.StatusPlanned || created.Priority != core.PriorityMedium {
		t.Errorf("defaults = (%q, %q), want (planned, medium)", created.Status, created.Priority)
	}

	if _, err := s.Create(ctx, "owner-1", core.SessionDraft{Title: "Unscheduled", Category: core.CategoryOther, DurationMinutes: 10}); err != nil {
		t.Fatalf("Create() unscheduled error = %v", err)
	}
	if _, err := s.Create(ctx, "owner-2", core.SessionDraft{Title: "Other owner", Category: core.CategoryOther, DurationMinutes: 10}); err != nil {
		t.Fatalf("Create() other owner error = %v", err)
	}

	got, err := s.List(ctx, "owner-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d sessions, want 2", len(got))
	}

	if diff := cmp.Diff(created, got[0]); diff != "" {
		t.Errorf("listed session mismatch (-created +listed):\n%s", diff)
	}
	wantScheduled := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)
	if got[0].ScheduledFor == nil || !got[0].ScheduledFor.Equal(wantScheduled) {
		t.Errorf("ScheduledFor = %v, want %v", got[0].ScheduledFor, wantScheduled)
	}
	if got[1].Title != "Unscheduled" || got[1].ScheduledFor != nil || len(got[1].Tags) != 0 {
		t.Errorf("second session = %+v, want unscheduled with no tags", got[1])
	}
}

func TestSQLite_CreateMatchesListForPaddedText(t *testing.T) {
	s := openTestSQLite(t)
	s.now = func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	created, err := s.Create(ctx, "owner-1", core.SessionDraft{
		Title:           "  Spanish  ",
		Description:     "  verbs ",
		Category:        core.CategoryLanguage,
		DurationMinutes: 20,
		Color:           " #ff0000 ",
		Notes:           "   ",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Title != "Spanish" || created.Description != "verbs" || created.Color != "#ff0000" || created.Notes != "" {
		t.Errorf("Create() text = (%q, %q, %q, %q), want trimmed", created.Title, created.Description, created.Color, created.Notes)
	}

	got, err := s.List(ctx, "owner-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List() returned %d sessions, want 1", len(got))
	}
	if diff := cmp.Diff(created, got[0]); diff != "" {
		t.Errorf("listed session mismatch (-created +listed):\n%s", diff)
	}
}

func TestSQLite_RejectsInvalidRows(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		draft   core.SessionDraft
		wantErr string
	}{
		{
			name:    "unknown status",
			draft:   core.SessionDraft{Title: "x", Category: core.CategorySchool, DurationMinutes: 5, Status: "done"},
			wantErr: "CHECK constraint",
		},
		{
			name:    "zero duration",
			draft:   core.SessionDraft{Title: "x", Category: core.CategorySchool},
			wantErr: "CHECK constraint",
		},
		{
			name:    "bad schedule",
			draft:   core.SessionDraft{Title: "x", Category: core.CategorySchool, DurationMinutes: 5, ScheduledFor: "banana"},
			wantErr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, "owner-1", tt.draft)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Create() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSQLite_BulkCommitPartialSuccess(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	drafts := []core.SessionDraft{
		{Title: "ok 1", Category: core.CategorySchool, DurationMinutes: 30},
		{Title: "bad status", Category: core.CategorySchool, DurationMinutes: 30, Status: "someday"},
		{Title: "ok 2", Category: core.CategoryLanguage, DurationMinutes: 20},
	}

	out, err := core.NewBulkCommitter(s, 0).Commit(ctx, "owner-1", drafts)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if out.TotalCreated != 2 || out.TotalFailed != 1 {
		t.Errorf("totals = (%d, %d), want (2, 1)", out.TotalCreated, out.TotalFailed)
	}

	listed, err := s.List(ctx, "owner-1", 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("store has %d sessions, want 2", len(listed))
	}
}

func TestSQLEnumList(t *testing.T) {
	got := sqlEnumList([]string{"a", "it's"})
	want := `'a', 'it''s'`
	if got != want {
		t.Errorf("sqlEnumList() = %q, want %q", got, want)
	}
}

func TestNewRecordTrimsText(t *testing.T) {
	r, err := newRecord(core.SessionDraft{
		Title:       " Go ",
		Description: "\tchannels\n",
		Color:       "  ",
		Notes:       " n ",
	})
	if err != nil {
		t.Fatalf("newRecord() error = %v", err)
	}
	got := []string{r.title, r.description, r.color, r.notes}
	want := []string{"Go", "channels", "", "n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record text mismatch (-want +got):\n%s", diff)
	}
}
