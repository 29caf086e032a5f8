package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

var reportColumns = []table.Column{
	{Title: "Status", Width: 14},
	{Title: "Repository", Width: 40},
	{Title: "Violations", Width: 10},
	{Title: "Worst", Width: 10},
}

var exceptionColumns = []table.Column{
	{Title: "Repository", Width: 40},
	{Title: "Lib / pattern", Width: 30},
}

// buildReportRows converts reports to table rows.
func buildReportRows(reports []models.ScanReport) []table.Row {
	rows := make([]table.Row, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, table.Row{
			string(r.Status),
			truncate(r.Repository, reportColumns[1].Width),
			fmt.Sprintf("%d", r.ViolationsCount),
			string(worstSeverity(r)),
		})
	}
	return rows
}

// buildExceptionRows converts exception rules to table rows.
func buildExceptionRows(rules []models.ExceptionRule) []table.Row {
	rows := make([]table.Row, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, table.Row{
			truncate(r.Repository, exceptionColumns[0].Width),
			truncate(r.Lib, exceptionColumns[1].Width),
		})
	}
	return rows
}

// worstSeverity returns the most severe level in the report, or "" for a
// compliant one.
func worstSeverity(r models.ScanReport) models.Severity {
	var worst models.Severity
	for _, v := range r.Violations {
		if worst == "" || v.Severity.Rank() < worst.Rank() {
			worst = v.Severity
		}
	}
	return worst
}

// truncate shortens s to maxLen terminal cells without splitting a character.
func truncate(s string, maxLen int) string {
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, ellipsis)
}

// newTable creates a bubbles table with the given columns and standard styling.
func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}

// minTableRows is the smallest number of body rows a table shows.
const minTableRows = 3

// setRows replaces the rows and keeps the cursor inside the new range. An
// emptied table parks its cursor at -1, so refilling it selects the first row.
func setRows(t *table.Model, rows []table.Row) {
	t.SetRows(rows)
	if len(rows) > 0 && t.Cursor() < 0 {
		t.SetCursor(0)
	}
}

// setHeight gives the table h lines in total, header included, but never
// fewer than minTableRows body rows.
func setHeight(t *table.Model, h int) {
	if h < 1 {
		h = 1
	}
	t.SetHeight(h)
	if body := t.Height(); body < minTableRows {
		t.SetHeight(h + minTableRows - body)
	}
}
