package web

// views.go holds the HTML components. They are plain templ components built
// with templ.ComponentFunc; every interpolated value goes through
// templ.EscapeString.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#111827}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #e5e7eb;padding:4px 8px;text-align:left;vertical-align:top}
tr.error{background:#fef2f2}tr.warning{background:#fffbeb}
.summary span{margin-right:1.5rem}.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem}`

// statusLabels are the badges shown for each row outcome.
var statusLabels = map[core.RowStatus]string{
	core.RowSuccess: "OK",
	core.RowWarning: "Warning",
	core.RowError:   "Error",
}

// reviewPage renders every row of a preview with its problems, so the user
// can decide what to commit.
func reviewPage(p core.ImportPreview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		e := templ.EscapeString[string]

		title := "Import review"
		if p.FileName != "" {
			title += ": " + p.FileName
		}

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
		b.WriteString(e(title))
		b.WriteString("</title><style>")
		b.WriteString(pageStyle)
		b.WriteString("</style></head><body>")
		fmt.Fprintf(&b, "<h1>%s</h1>", e(title))

		s := p.Summary
		fmt.Fprintf(&b, `<p class="summary"><span>Total: %d</span><span>Ready: %d</span><span>Warnings: %d</span><span>Errors: %d</span><span>Duplicates: %d</span></p>`,
			s.Total, s.Successful, s.Warnings, s.Failed, s.Duplicates)
		fmt.Fprintf(&b, `<p><a href="/api/import/%s/report">Download report (CSV)</a></p>`, e(p.ImportID))

		b.WriteString("<table><thead><tr><th>Row</th><th>Status</th><th>Title</th><th>Category</th>" +
			"<th>Duration</th><th>Scheduled</th><th>Tags</th><th>Problems</th></tr></thead><tbody>")
		for _, row := range p.Rows {
			label := statusLabels[row.Status]
			if row.IsDuplicate {
				label += " (duplicate)"
			}
			d := row.Draft
			fmt.Fprintf(&b, `<tr class="%s"><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>`,
				e(string(row.Status)), row.RowNumber, e(label), e(d.Title), e(string(d.Category)),
				d.DurationMinutes, e(d.ScheduledFor), e(strings.Join(d.Tags, ", ")))
			writeProblems(&b, row)
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeProblems(b *strings.Builder, row core.ImportRow) {
	if len(row.Errors) == 0 && len(row.Warnings) == 0 {
		return
	}
	b.WriteString("<ul>")
	for _, msg := range row.Errors {
		fmt.Fprintf(b, "<li><strong>%s</strong></li>", templ.EscapeString(msg))
	}
	for _, msg := range row.Warnings {
		fmt.Fprintf(b, "<li>%s</li>", templ.EscapeString(msg))
	}
	b.WriteString("</ul>")
}

// errorAlert renders a user-facing error with its support code.
func errorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert" role="alert"><p><strong>%s</strong></p><p>%s</p><p>Code: %s</p></div>`,
			templ.EscapeString(msg.Message), templ.EscapeString(msg.Action), templ.EscapeString(msg.Code))
		return err
	})
}
