package core

// validation.go provides validation for session drafts.
//
// Validation happens at two levels:
//  1. Row validation: maps one extracted row to a draft and collects every
//     error and soft-correction warning (for the review UI)
//  2. Commit validation: a narrower first-error check run by the bulk
//     committer, which also receives drafts that never went through a file
//
// Row validation never fails the batch; problems are reported on the row.

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Messages recorded on rows. Kept as constants so callers and tests can match them.
const (
	msgTitleRequired    = "Title is required"
	msgCategoryRequired = "Category is required"
	msgDurationPositive = "Duration must be a positive number"
	msgTagsNotList      = "Tags should be an array"
)

// MaxDurationMinutes is the largest duration the stores' INTEGER column holds.
const MaxDurationMinutes = math.MaxInt32

var msgDurationTooLarge = fmt.Sprintf("Duration must be at most %d minutes", MaxDurationMinutes)

// RowValidator maps extracted rows to drafts for one source format.
type RowValidator struct {
	format Format
}

// NewRowValidator creates a validator for rows extracted from the given format.
func NewRowValidator(format Format) *RowValidator {
	return &RowValidator{format: format}
}

// Validate builds a draft from fields and checks it. All applicable issues are
// collected. A row with errors still carries the partial draft so it can be
// shown for review.
func (v *RowValidator) Validate(fields FieldMap, rowNumber int) ImportRow {
	b := newDraftBuilder(v.format)
	b.apply(fields)

	row := ImportRow{
		RowNumber: rowNumber,
		Errors:    []string{},
		Warnings:  []string{},
	}

	if strings.TrimSpace(b.draft.Title) == "" {
		row.Errors = append(row.Errors, msgTitleRequired)
	}

	switch {
	case b.category == "":
		row.Errors = append(row.Errors, msgCategoryRequired)
	default:
		if c, ok := ParseCategory(b.category); ok {
			b.draft.Category = c
		} else {
			b.draft.Category = Category(b.category)
			row.Errors = append(row.Errors, fmt.Sprintf("Invalid category %q. Must be one of: %s",
				b.category, joinEnum(Categories)))
		}
	}

	switch {
	case b.draft.DurationMinutes <= 0:
		row.Errors = append(row.Errors, msgDurationPositive)
	case b.draft.DurationMinutes > MaxDurationMinutes:
		row.Errors = append(row.Errors, msgDurationTooLarge)
	}

	b.draft.Status = DefaultStatus
	if b.status != "" {
		if s, ok := ParseStatus(b.status); ok {
			b.draft.Status = s
		} else {
			row.Warnings = append(row.Warnings, fmt.Sprintf("Invalid status %q, reset to %q",
				b.status, DefaultStatus))
		}
	}

	b.draft.Priority = DefaultPriority
	if b.priority != "" {
		if p, ok := ParsePriority(b.priority); ok {
			b.draft.Priority = p
		} else {
			row.Warnings = append(row.Warnings, fmt.Sprintf("Invalid priority %q, reset to %q",
				b.priority, DefaultPriority))
		}
	}

	if b.scheduledFor != "" {
		if _, ok := ParseDate(b.scheduledFor); ok {
			b.draft.ScheduledFor = b.scheduledFor
		} else {
			row.Warnings = append(row.Warnings, fmt.Sprintf("Invalid scheduled date %q was cleared",
				b.scheduledFor))
		}
	}

	if b.tagsInvalid {
		row.Warnings = append(row.Warnings, msgTagsNotList)
		b.draft.Tags = []string{}
	}

	row.Draft = b.draft
	row.Status = deriveStatus(row)
	return row
}

// ValidateAll validates every extracted row, numbering them from 1.
func (v *RowValidator) ValidateAll(rows []FieldMap) []ImportRow {
	out := make([]ImportRow, len(rows))
	for i, fields := range rows {
		out[i] = v.Validate(fields, i+1)
	}
	return out
}

func deriveStatus(row ImportRow) RowStatus {
	switch {
	case len(row.Errors) > 0:
		return RowError
	case len(row.Warnings) > 0:
		return RowWarning
	default:
		return RowSuccess
	}
}

// ValidateForCommit applies the minimal invariants a draft must satisfy before
// it is persisted and returns the first violation. It does not correct
// anything: enum defaults are filled by NormalizeDraft.
func ValidateForCommit(d SessionDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New(msgTitleRequired)
	}
	if strings.TrimSpace(string(d.Category)) == "" {
		return errors.New(msgCategoryRequired)
	}
	if _, ok := ParseCategory(string(d.Category)); !ok {
		return fmt.Errorf("Invalid category %q. Must be one of: %s", d.Category, joinEnum(Categories))
	}
	if d.DurationMinutes <= 0 {
		return errors.New(msgDurationPositive)
	}
	if d.DurationMinutes > MaxDurationMinutes {
		return errors.New(msgDurationTooLarge)
	}
	if _, _, err := d.ScheduledTime(); err != nil {
		return fmt.Errorf("Invalid scheduled date %q", d.ScheduledFor)
	}
	return nil
}

// NormalizeDraft canonicalizes enum spelling and fills defaults for empty
// status and priority. Unrecognized non-empty values are left for the store
// to reject.
func NormalizeDraft(d SessionDraft) SessionDraft {
	d = d.clone()
	d.Title = strings.TrimSpace(d.Title)
	if c, ok := ParseCategory(string(d.Category)); ok {
		d.Category = c
	}
	if strings.TrimSpace(string(d.Status)) == "" {
		d.Status = DefaultStatus
	} else if s, ok := ParseStatus(string(d.Status)); ok {
		d.Status = s
	}
	if strings.TrimSpace(string(d.Priority)) == "" {
		d.Priority = DefaultPriority
	} else if p, ok := ParsePriority(string(d.Priority)); ok {
		d.Priority = p
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}
