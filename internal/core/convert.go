package core

// convert.go provides conversion helpers for loosely typed import values.
//
// These functions handle the messy reality of user-provided data:
//   - Multiple date formats (ISO timestamps, US, EU, written months)
//   - Excel formula prefixes (="value") and stray quotes in cells
//   - Numbers arriving as text, floats or integers depending on the format

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/markusmobius/go-dateparser"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
var (
	timestampLayouts = []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05", "2006-01-02T15:04",
		"2006-01-02 15:04:05", "2006-01-02 15:04",
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
		"20060102",
	}
)

// ParseDate reads s as a timestamp. Fixed layouts are tried first; free-form
// text with digits and at least one word ("15 March 2024 at 9am") falls back
// to the natural-language parser. Values without an explicit zone are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	if !hasDateWordAndDigits(s) {
		return time.Time{}, false
	}
	cfg := &dateparser.Configuration{CurrentTime: time.Now().UTC()}
	dt, err := dateparser.Parse(cfg, s)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	return dt.Time, true
}

// minDateWord is the shortest letter run that can name a month, weekday or
// relative day ("may", "mon", "tomorrow"). Shorter runs such as "v2" or "Q3"
// are labels, not dates.
const minDateWord = 3

func hasDateWordAndDigits(s string) bool {
	var digit bool
	run, longest := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
		if unicode.IsDigit(r) {
			digit = true
		}
	}
	return digit && longest >= minDateWord
}

// ToInt coerces a loosely typed value to an int. Text is parsed as a base-10
// integer (a trailing ".0" is tolerated); anything that cannot be read as a
// whole number yields 0.
func ToInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return int(val)
	case string:
		s := CleanCell(val)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

// ToText renders a loosely typed scalar as text. Lists and objects yield "".
func ToText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// NormalizeKey folds a header or property name for lookup in the field table.
func NormalizeKey(s string) string {
	return strings.ToLower(CleanCell(s))
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
