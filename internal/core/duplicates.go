package core

import (
	"fmt"
	"slices"
)

// duplicateKey identifies a session within one import. The raw scheduledFor
// text is used as-is, so the same instant written two ways is not a match.
func duplicateKey(d SessionDraft) string {
	return d.Title + "-" + d.ScheduledFor
}

// MarkDuplicates flags rows whose (title, scheduledFor) pair repeats an
// earlier row. The first occurrence is never flagged; later ones get
// IsDuplicate, a "Duplicate of row N" warning, and success is downgraded to
// warning. Error rows neither contribute keys nor get flagged.
//
// rows is modified in place. Running it again on the same slice is a no-op.
func MarkDuplicates(rows []ImportRow) {
	first := make(map[string]int, len(rows))

	for i := range rows {
		row := &rows[i]
		if row.Status == RowError {
			continue
		}

		key := duplicateKey(row.Draft)
		firstRow, seen := first[key]
		if !seen {
			first[key] = row.RowNumber
			continue
		}

		row.IsDuplicate = true
		warning := fmt.Sprintf("Duplicate of row %d", firstRow)
		if !slices.Contains(row.Warnings, warning) {
			row.Warnings = append(row.Warnings, warning)
		}
		if row.Status == RowSuccess {
			row.Status = RowWarning
		}
	}
}
