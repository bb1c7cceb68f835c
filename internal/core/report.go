package core

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// reportHeader leads with underscore-prefixed bookkeeping columns, followed
// by the draft fields in import-file order.
var reportHeader = []string{
	"_row", "_status", "_duplicate", "_errors", "_warnings",
	"title", "description", "category", "status", "priority",
	"duration", "color", "tags", "notes", "scheduledFor",
}

// WriteReport writes every row as CSV with its status, errors and warnings.
// A report of error rows can be fixed and re-imported as-is since the draft
// columns use importable header names.
func WriteReport(w io.Writer, rows []ImportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}

	for _, r := range rows {
		d := r.Draft
		duration := ""
		if d.DurationMinutes != 0 {
			duration = strconv.Itoa(d.DurationMinutes)
		}
		record := []string{
			strconv.Itoa(r.RowNumber),
			string(r.Status),
			strconv.FormatBool(r.IsDuplicate),
			strings.Join(r.Errors, "; "),
			strings.Join(r.Warnings, "; "),
			d.Title,
			d.Description,
			string(d.Category),
			string(d.Status),
			string(d.Priority),
			duration,
			d.Color,
			strings.Join(d.Tags, ","),
			d.Notes,
			d.ScheduledFor,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
