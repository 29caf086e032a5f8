package tui

import (
	"fmt"
	"strings"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 7

// maxDetailViolations caps how many violations the panel lists.
const maxDetailViolations = 3

// renderDetail produces the detail view for a selected report.
func renderDetail(report *models.ScanReport, width int) string {
	if report == nil {
		return styleDetailPanel.Width(width).Render("No repository selected")
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", statusStyle(report.Status).Render(string(report.Status)), report.Repository))

	if report.Compliant() {
		b.WriteString(styleMuted.Render("No Shadow AI usage detected"))
		return styleDetailPanel.Width(width).Render(b.String())
	}

	for i, v := range report.Violations {
		if i == maxDetailViolations {
			b.WriteString(styleMuted.Render(fmt.Sprintf("+%d more", len(report.Violations)-maxDetailViolations)))
			break
		}
		b.WriteString(renderViolation(v))
		b.WriteString("\n")
	}

	return styleDetailPanel.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func renderViolation(v models.Violation) string {
	sev := severityStyle(v.Severity).Render(string(v.Severity))
	line := fmt.Sprintf("%s  %s (%s)", sev, v.RuleName, v.Category.Label())
	if v.LineNumber > 0 {
		line += fmt.Sprintf(" line %d", v.LineNumber)
	}
	if v.MatchPreview != "" {
		line += "\n    " + styleMuted.Render(truncate(v.MatchPreview, 100))
	}
	return line
}
