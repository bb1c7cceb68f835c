package core

// recurrence.go expands a single draft into dated occurrences.
//
// Two strategies are used:
//   - weekly rules with explicit weekdays walk Sunday-start week blocks and
//     emit every selected weekday in each block
//   - everything else steps from the anchor by a fixed day or month interval
//
// Expansion is capped at MaxOccurrences regardless of the end condition.

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// MaxOccurrences is the hard ceiling on occurrences produced by one expansion.
const MaxOccurrences = 365

// Frequency is the unit a recurrence interval counts in.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// EndType selects which stop condition applies to a recurrence.
type EndType string

const (
	EndAfterCount EndType = "count"
	EndOnDate     EndType = "date"
	EndNever      EndType = "never"
)

// RecurrenceRule describes how a session repeats.
type RecurrenceRule struct {
	Frequency  Frequency `json:"frequency" yaml:"frequency"`
	Interval   int       `json:"interval" yaml:"interval"`
	DaysOfWeek []int     `json:"daysOfWeek,omitempty" yaml:"daysOfWeek,omitempty"` // 0 = Sunday; weekly only
	DayOfMonth int       `json:"dayOfMonth,omitempty" yaml:"dayOfMonth,omitempty"` // 1-31; monthly only
	EndType    EndType   `json:"endType" yaml:"endType"`
	EndCount   int       `json:"endCount,omitempty" yaml:"endCount,omitempty"`
	EndDate    time.Time `json:"endDate" yaml:"endDate,omitempty"`
}

// UnmarshalJSON accepts endDate in any format ParseDate understands, so a
// plain "2024-03-01" works as well as a full timestamp.
func (r *RecurrenceRule) UnmarshalJSON(data []byte) error {
	type plainRule RecurrenceRule
	var aux struct {
		plainRule
		EndDate string `json:"endDate"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = RecurrenceRule(aux.plainRule)
	r.EndDate = time.Time{}
	if aux.EndDate != "" {
		t, ok := ParseDate(aux.EndDate)
		if !ok {
			return &DateError{Value: aux.EndDate}
		}
		r.EndDate = t
	}
	return nil
}

// withDefaults fills an omitted interval and end type.
func (r RecurrenceRule) withDefaults() RecurrenceRule {
	if r.Interval == 0 {
		r.Interval = 1
	}
	if r.EndType == "" {
		r.EndType = EndNever
	}
	return r
}

// Validate reports the first structural problem with the rule.
func (r RecurrenceRule) Validate() error {
	r = r.withDefaults()

	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidRecurrence, r.Interval)
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidRecurrence, d)
		}
	}
	if r.DayOfMonth < 0 || r.DayOfMonth > 31 {
		return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidRecurrence, r.DayOfMonth)
	}

	switch r.EndType {
	case EndAfterCount:
		if r.EndCount < 1 {
			return fmt.Errorf("%w: end count must be positive", ErrInvalidRecurrence)
		}
	case EndOnDate:
		if r.EndDate.IsZero() {
			return fmt.Errorf("%w: end date is required", ErrInvalidRecurrence)
		}
	case EndNever:
	default:
		return fmt.Errorf("%w: unknown end type %q", ErrInvalidRecurrence, r.EndType)
	}
	return nil
}

// Expander generates occurrences. The zero value uses the wall clock and
// MaxOccurrences.
type Expander struct {
	// Now supplies the anchor for drafts without a scheduled time.
	Now func() time.Time
	// Limit overrides MaxOccurrences when positive and smaller.
	Limit int
}

func (e *Expander) now() time.Time {
	if e != nil && e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Expander) limit() int {
	if e != nil && e.Limit > 0 && e.Limit < MaxOccurrences {
		return e.Limit
	}
	return MaxOccurrences
}

// Expand returns copies of base, one per occurrence of rule, with
// ScheduledFor set to the occurrence time in RFC 3339. The anchor is base's
// scheduled time, or now when base is unscheduled.
func (e *Expander) Expand(base SessionDraft, rule RecurrenceRule) ([]SessionDraft, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	rule = rule.withDefaults()

	anchor, ok, err := base.ScheduledTime()
	if err != nil {
		return nil, fmt.Errorf("recurrence anchor: %w", err)
	}
	if !ok {
		anchor = e.now()
	}

	var times []time.Time
	if rule.Frequency == FrequencyWeekly && len(rule.DaysOfWeek) > 0 {
		times = e.expandWeekdays(anchor, rule)
	} else {
		times = e.expandInterval(anchor, rule)
	}

	out := make([]SessionDraft, len(times))
	for i, t := range times {
		d := base.clone()
		d.ScheduledFor = t.Format(time.RFC3339)
		out[i] = d
	}
	return out, nil
}

// expandWeekdays walks blocks of rule.Interval weeks starting at the Sunday
// on or before anchor, emitting each selected weekday not earlier than anchor.
//
// The count limit is checked after every emission. An earlier revision only
// checked it once per block and could overshoot EndCount by up to
// len(DaysOfWeek)-1; per-emission checking is the current behavior, and the
// interval branch below uses the same granularity.
func (e *Expander) expandWeekdays(anchor time.Time, rule RecurrenceRule) []time.Time {
	days := slices.Clone(rule.DaysOfWeek)
	slices.Sort(days)
	days = slices.Compact(days)

	limit := e.limit()
	weekStart := anchor.AddDate(0, 0, -int(anchor.Weekday()))

	var out []time.Time
	for block := weekStart; ; block = block.AddDate(0, 0, 7*rule.Interval) {
		for _, day := range days {
			candidate := block.AddDate(0, 0, day)
			if candidate.Before(anchor) {
				continue
			}
			if rule.EndType == EndOnDate && candidate.After(rule.EndDate) {
				return out
			}
			out = append(out, candidate)
			if len(out) >= limit || (rule.EndType == EndAfterCount && len(out) >= rule.EndCount) {
				return out
			}
		}
	}
}

// expandInterval steps from anchor by the rule's interval, checking the end
// condition before each emission.
func (e *Expander) expandInterval(anchor time.Time, rule RecurrenceRule) []time.Time {
	limit := e.limit()

	var out []time.Time
	for current := anchor; len(out) < limit; current = advance(current, rule) {
		if rule.EndType == EndOnDate && current.After(rule.EndDate) {
			break
		}
		if rule.EndType == EndAfterCount && len(out) >= rule.EndCount {
			break
		}
		out = append(out, current)
	}
	return out
}

// advance moves t forward by one interval. Monthly steps pin the day of month
// when the rule sets one; time.Date normalizes overflow, so day 31 in a
// 30-day month lands on the 1st of the next month.
func advance(t time.Time, rule RecurrenceRule) time.Time {
	switch rule.Frequency {
	case FrequencyDaily:
		return t.AddDate(0, 0, rule.Interval)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	default:
		next := t.AddDate(0, rule.Interval, 0)
		if rule.DayOfMonth > 0 {
			next = time.Date(next.Year(), next.Month(), rule.DayOfMonth,
				next.Hour(), next.Minute(), next.Second(), next.Nanosecond(), next.Location())
		}
		return next
	}
}

// ExpandAll expands each draft by rule and concatenates the results when
// applyToAll is set. Otherwise only the first draft is expanded and the rest
// pass through unchanged.
func (e *Expander) ExpandAll(drafts []SessionDraft, rule RecurrenceRule, applyToAll bool) ([]SessionDraft, error) {
	return e.ExpandAllWithin(drafts, rule, applyToAll, 0)
}

// ExpandAllWithin is ExpandAll with a ceiling on the combined result. It stops
// as soon as the running total passes limit and returns a *LimitError carrying
// the total reached so far. limit <= 0 disables the ceiling.
func (e *Expander) ExpandAllWithin(drafts []SessionDraft, rule RecurrenceRule, applyToAll bool, limit int) ([]SessionDraft, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	var out []SessionDraft
	for i, d := range drafts {
		if i > 0 && !applyToAll {
			out = append(out, drafts[i:]...)
			break
		}
		occurrences, err := e.Expand(d, rule)
		if err != nil {
			return nil, fmt.Errorf("expand draft %d: %w", i+1, err)
		}
		out = append(out, occurrences...)
		if limit > 0 && len(out) > limit {
			return nil, &LimitError{Count: len(out), Max: limit}
		}
	}
	if limit > 0 && len(out) > limit {
		return nil, &LimitError{Count: len(out), Max: limit}
	}
	return out, nil
}
