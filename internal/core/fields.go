package core

import (
	"sort"
	"strings"
)

// fieldSetter copies one extracted value onto the builder.
type fieldSetter func(b *draftBuilder, v any)

// fieldTable maps normalized header/property names to setters. Names that are
// not listed here are ignored.
var fieldTable = map[string]fieldSetter{
	"title":            (*draftBuilder).setTitle,
	"description":      (*draftBuilder).setDescription,
	"category":         (*draftBuilder).setCategory,
	"status":           (*draftBuilder).setStatus,
	"priority":         (*draftBuilder).setPriority,
	"duration":         (*draftBuilder).setDuration,
	"durationminutes":  (*draftBuilder).setDuration,
	"duration_minutes": (*draftBuilder).setDuration,
	"color":            (*draftBuilder).setColor,
	"tags":             (*draftBuilder).setTags,
	"notes":            (*draftBuilder).setNotes,
	"scheduledfor":     (*draftBuilder).setScheduledFor,
	"scheduled_for":    (*draftBuilder).setScheduledFor,
}

// draftBuilder accumulates a SessionDraft from loosely typed fields. Enum and
// date fields are kept raw until validate decides how to treat them.
type draftBuilder struct {
	format Format
	draft  SessionDraft

	category     string
	status       string
	priority     string
	scheduledFor string
	tagsInvalid  bool
}

func newDraftBuilder(format Format) *draftBuilder {
	return &draftBuilder{
		format: format,
		draft:  SessionDraft{Tags: []string{}},
	}
}

// apply routes every recognized field to its setter. Keys are visited in
// sorted order so aliases resolve the same way on every run: when both
// "duration" and "durationMinutes" are present, the later key in sort order
// wins.
func (b *draftBuilder) apply(fields FieldMap) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if set, ok := fieldTable[NormalizeKey(k)]; ok {
			set(b, fields[k])
		}
	}
}

func (b *draftBuilder) setTitle(v any)       { b.draft.Title = ToText(v) }
func (b *draftBuilder) setDescription(v any) { b.draft.Description = ToText(v) }
func (b *draftBuilder) setColor(v any)       { b.draft.Color = ToText(v) }
func (b *draftBuilder) setNotes(v any)       { b.draft.Notes = ToText(v) }
func (b *draftBuilder) setCategory(v any)    { b.category = ToText(v) }
func (b *draftBuilder) setStatus(v any)      { b.status = ToText(v) }
func (b *draftBuilder) setPriority(v any)    { b.priority = ToText(v) }
func (b *draftBuilder) setScheduledFor(v any) {
	b.scheduledFor = ToText(v)
}

func (b *draftBuilder) setDuration(v any) {
	b.draft.DurationMinutes = ToInt(v)
}

// setTags accepts a list in every format. Delimited text has no list type, so
// there a comma-separated cell is split instead.
func (b *draftBuilder) setTags(v any) {
	b.tagsInvalid = false
	switch val := v.(type) {
	case nil:
		b.draft.Tags = []string{}
	case []any:
		tags := make([]string, 0, len(val))
		for _, item := range val {
			if t := ToText(item); t != "" {
				tags = append(tags, t)
			}
		}
		b.draft.Tags = tags
	case []string:
		b.draft.Tags = splitTags(strings.Join(val, ","))
	case string:
		if b.format == FormatCSV {
			b.draft.Tags = splitTags(val)
			return
		}
		if strings.TrimSpace(val) == "" {
			b.draft.Tags = []string{}
			return
		}
		b.tagsInvalid = true
	default:
		b.tagsInvalid = true
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
