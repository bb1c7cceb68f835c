package core

import (
	"context"
	"strings"
	"time"
)

// Category is the subject area a study session belongs to.
type Category string

const (
	CategorySchool      Category = "school"
	CategoryProgramming Category = "programming"
	CategoryLanguage    Category = "language"
	CategoryPersonal    Category = "personal"
	CategoryOther       Category = "other"
)

// Categories lists every recognized category in display order.
var Categories = []Category{
	CategorySchool, CategoryProgramming, CategoryLanguage, CategoryPersonal, CategoryOther,
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusMissed     Status = "missed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every recognized status.
var Statuses = []Status{
	StatusPlanned, StatusInProgress, StatusCompleted, StatusMissed, StatusCancelled,
}

// Priority ranks how important a session is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every recognized priority.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Default values applied to drafts that omit or misspell optional enums.
const (
	DefaultStatus   = StatusPlanned
	DefaultPriority = PriorityMedium
)

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	return matchEnum(s, Categories)
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	return matchEnum(s, Statuses)
}

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, bool) {
	return matchEnum(s, Priorities)
}

func matchEnum[T ~string](s string, values []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// SessionDraft is a not-yet-persisted learning session.
//
// ScheduledFor keeps the raw timestamp text as supplied by the caller (empty
// when absent). Duplicate detection keys on this raw form; use ScheduledTime
// to obtain a parsed value.
type SessionDraft struct {
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category        Category `json:"category" yaml:"category"`
	Status          Status   `json:"status" yaml:"status"`
	Priority        Priority `json:"priority" yaml:"priority"`
	DurationMinutes int      `json:"durationMinutes" yaml:"durationMinutes"`
	Color           string   `json:"color,omitempty" yaml:"color,omitempty"`
	Tags            []string `json:"tags" yaml:"tags"`
	Notes           string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	ScheduledFor    string   `json:"scheduledFor,omitempty" yaml:"scheduledFor,omitempty"`
}

// ScheduledTime parses ScheduledFor. ok is false when the draft is unscheduled;
// err is non-nil when a value is present but cannot be read as a date.
func (d SessionDraft) ScheduledTime() (t time.Time, ok bool, err error) {
	raw := strings.TrimSpace(d.ScheduledFor)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, valid := ParseDate(raw)
	if !valid {
		return time.Time{}, false, &DateError{Value: raw}
	}
	return t, true, nil
}

// clone returns a copy of d that shares no slices with it.
func (d SessionDraft) clone() SessionDraft {
	c := d
	if d.Tags != nil {
		c.Tags = append([]string(nil), d.Tags...)
	}
	return c
}

// Session is a persisted session record as returned by a SessionStore.
type Session struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        Category   `json:"category"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	DurationMinutes int        `json:"durationMinutes"`
	Color           string     `json:"color,omitempty"`
	Tags            []string   `json:"tags"`
	Notes           string     `json:"notes,omitempty"`
	ScheduledFor    *time.Time `json:"scheduledFor,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SessionStore persists sessions. Implementations must make each Create
// atomic on its own; callers never group several creates in one transaction.
type SessionStore interface {
	Create(ctx context.Context, ownerID string, draft SessionDraft) (Session, error)
}

// RowStatus is the outcome of validating a single import row.
type RowStatus string

const (
	RowSuccess RowStatus = "success"
	RowWarning RowStatus = "warning"
	RowError   RowStatus = "error"
)

// ImportRow is the validation outcome for one source row.
type ImportRow struct {
	RowNumber   int          `json:"rowNumber"`
	Draft       SessionDraft `json:"draft"`
	Status      RowStatus    `json:"status"`
	Errors      []string     `json:"errors"`
	Warnings    []string     `json:"warnings"`
	IsDuplicate bool         `json:"isDuplicate"`
}

// ImportSummary counts row outcomes for the review screen.
type ImportSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Warnings   int `json:"warnings"`
	Duplicates int `json:"duplicates"`
}

// Summarize counts row outcomes. Successful counts every row that can be
// committed (success and warning rows alike).
func Summarize(rows []ImportRow) ImportSummary {
	s := ImportSummary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case RowError:
			s.Failed++
		case RowWarning:
			s.Warnings++
			s.Successful++
		default:
			s.Successful++
		}
		if r.IsDuplicate {
			s.Duplicates++
		}
	}
	return s
}

// ImportPreview is the reviewable result of parsing an uploaded file.
type ImportPreview struct {
	ImportID  string        `json:"importId"`
	OwnerID   string        `json:"ownerId"`
	FileName  string        `json:"fileName,omitempty"`
	Format    Format        `json:"format"`
	Rows      []ImportRow   `json:"rows"`
	Summary   ImportSummary `json:"summary"`
	CreatedAt time.Time     `json:"createdAt"`
}

// FailedDraft pairs a draft that could not be committed with the reason.
type FailedDraft struct {
	Index int          `json:"index"`
	Draft SessionDraft `json:"draft"`
	Error string       `json:"error"`
}

// BulkOutcome reports the per-item result of a bulk commit.
type BulkOutcome struct {
	Successful     []Session     `json:"successful"`
	Failed         []FailedDraft `json:"failed"`
	TotalAttempted int           `json:"totalAttempted"`
	TotalCreated   int           `json:"totalCreated"`
	TotalFailed    int           `json:"totalFailed"`
}
