// Package store provides SessionStore implementations backed by PostgreSQL
// (pgx) and SQLite (modernc.org/sqlite).
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

// sqlEnumList renders values as a quoted SQL IN list: 'a', 'b'.
func sqlEnumList[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}

// enumChecks returns the shared column constraints for the enum columns.
func enumChecks() (category, status, priority string) {
	return fmt.Sprintf("CHECK (category IN (%s))", sqlEnumList(core.Categories)),
		fmt.Sprintf("CHECK (status IN (%s))", sqlEnumList(core.Statuses)),
		fmt.Sprintf("CHECK (priority IN (%s))", sqlEnumList(core.Priorities))
}

// record is a draft prepared for insertion. Text is trimmed here so the
// session returned by Create matches what List reads back.
type record struct {
	title       string
	description string
	category    string
	status      string
	priority    string
	duration    int
	color       string
	tags        []string
	notes       string
	scheduled   *time.Time
}

func newRecord(d core.SessionDraft) (record, error) {
	t, ok, err := d.ScheduledTime()
	if err != nil {
		return record{}, err
	}
	r := record{
		title:       strings.TrimSpace(d.Title),
		description: strings.TrimSpace(d.Description),
		category:    string(d.Category),
		status:      string(d.Status),
		priority:    string(d.Priority),
		duration:    d.DurationMinutes,
		color:       strings.TrimSpace(d.Color),
		tags:        d.Tags,
		notes:       strings.TrimSpace(d.Notes),
	}
	if r.status == "" {
		r.status = string(core.DefaultStatus)
	}
	if r.priority == "" {
		r.priority = string(core.DefaultPriority)
	}
	if r.tags == nil {
		r.tags = []string{}
	}
	if ok {
		utc := t.UTC()
		r.scheduled = &utc
	}
	return r, nil
}

func (r record) session(id, ownerID string, createdAt time.Time) core.Session {
	return core.Session{
		ID:              id,
		OwnerID:         ownerID,
		Title:           r.title,
		Description:     r.description,
		Category:        core.Category(r.category),
		Status:          core.Status(r.status),
		Priority:        core.Priority(r.priority),
		DurationMinutes: r.duration,
		Color:           r.color,
		Tags:            r.tags,
		Notes:           r.notes,
		ScheduledFor:    r.scheduled,
		CreatedAt:       createdAt,
	}
}
