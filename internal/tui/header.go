package tui

import (
	"fmt"
	"strings"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/workflow"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

var severityOrder = []models.Severity{
	models.SeverityCritical,
	models.SeverityHigh,
	models.SeverityMedium,
	models.SeverityLow,
}

// renderHeader produces the persistent header. The totals are recomputed
// from the report set on every render.
func renderHeader(view workflow.View, summary aggregator.Summary, width int) string {
	var b strings.Builder

	// Line 1: title and active view
	b.WriteString(fmt.Sprintf("SAGA Shadow AI  %s", styleMuted.Render("["+view.String()+"]")))
	b.WriteString("\n")

	// Line 2: totals
	atRisk := fmt.Sprintf("At risk: %d", summary.TotalAtRisk)
	if summary.TotalAtRisk > 0 {
		atRisk = statusStyle(models.StatusNonCompliant).Render(atRisk)
	}
	b.WriteString(fmt.Sprintf("Scanned: %d  %s  Violations: %d",
		summary.TotalScanned, atRisk, summary.TotalViolations))
	b.WriteString("\n")

	// Line 3: severity breakdown
	sevParts := make([]string, 0, len(severityOrder))
	for _, sev := range severityOrder {
		if count := summary.ViolationsBySeverity[sev]; count > 0 {
			label := fmt.Sprintf("%s:%d", string(sev)[:1], count)
			sevParts = append(sevParts, severityStyle(sev).Render(label))
		}
	}
	if len(sevParts) > 0 {
		b.WriteString(strings.Join(sevParts, "  "))
	}

	return styleHeader.Width(width).Render(b.String())
}
