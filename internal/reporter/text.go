package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// severityOrder is the print order of the severity breakdown
var severityOrder = []models.Severity{
	models.SeverityCritical,
	models.SeverityHigh,
	models.SeverityMedium,
	models.SeverityLow,
}

// TextReporter generates human-readable text reports
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
	}
}

// Generate creates a text report from the snapshot
func (r *TextReporter) Generate(snapshot *Snapshot) error {
	// Header
	r.printHeader()
	if !snapshot.Timestamp.IsZero() {
		r.printf("Timestamp: %s\n\n", formatTimestamp(snapshot.Timestamp))
	}

	// Overall Summary
	r.printOverallSummary(snapshot)

	// Per-repository breakdown
	r.printRepositories(snapshot.Reports)

	return nil
}

// printHeader prints the report header
func (r *TextReporter) printHeader() {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║         SAGA Shadow AI Scan Report         ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")
}

// printOverallSummary prints the overall summary section
func (r *TextReporter) printOverallSummary(snapshot *Snapshot) {
	s := snapshot.Summary

	r.printf("Overall Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Repositories Scanned: %d\n", s.TotalScanned)
	r.printf("  At Risk: %d\n", s.TotalAtRisk)
	r.printf("  Total Violations: %d\n", s.TotalViolations)
	r.printf("\n")

	if len(s.ViolationsBySeverity) > 0 {
		r.printf("Violations by Severity:\n")
		for _, sev := range severityOrder {
			if count := s.ViolationsBySeverity[sev]; count > 0 {
				r.printf("  %s: %d\n", sev, count)
			}
		}
		// severities outside the known four, alphabetically
		var other []string
		for sev := range s.ViolationsBySeverity {
			if !sev.Known() {
				other = append(other, string(sev))
			}
		}
		sort.Strings(other)
		for _, sev := range other {
			r.printf("  %s: %d\n", sev, s.ViolationsBySeverity[models.Severity(sev)])
		}
		r.printf("\n")
	}

	if len(s.ViolationsByCategory) > 0 {
		r.printf("Violations by Category:\n")
		categories := make([]string, 0, len(s.ViolationsByCategory))
		for c := range s.ViolationsByCategory {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			cat := models.Category(c)
			r.printf("  %s: %d\n", cat.Label(), s.ViolationsByCategory[cat])
		}
		r.printf("\n")
	}
}

// printRepositories prints every report with its violations
func (r *TextReporter) printRepositories(reports []models.ScanReport) {
	if len(reports) == 0 {
		r.printf("No repositories scanned\n")
		return
	}

	r.printf("Repositories:\n")
	r.printf("--------------------------------------------------\n")
	for _, report := range reports {
		if report.Compliant() {
			r.printf("  [%s] %s\n", report.Status, report.Repository)
			continue
		}

		noun := "violations"
		if report.ViolationsCount == 1 {
			noun = "violation"
		}
		r.printf("  [%s] %s (%d %s)\n", report.Status, report.Repository, report.ViolationsCount, noun)
		for _, v := range report.Violations {
			r.printf("     - [%s] %s (%s)", v.Severity, v.RuleName, v.Category.Label())
			if v.LineNumber > 0 {
				r.printf(" line %d", v.LineNumber)
			}
			r.printf("\n")
			if v.MatchPreview != "" {
				r.printf("       %s\n", strings.TrimSpace(v.MatchPreview))
			}
		}
	}
}

// printf is a helper to write formatted output
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
