package models

import "strings"

// Status is the compliance verdict for a repository snapshot.
type Status string

const (
	StatusCompliant    Status = "COMPLIANT"
	StatusNonCompliant Status = "NON_COMPLIANT"
)

// Category groups detection rules. The set is open: scanners may emit
// categories this package does not know about and they must still render.
type Category string

const (
	CategoryLibrary     Category = "LIBRARY"
	CategoryCodePattern Category = "CODE_PATTERN"
	CategoryAPICall     Category = "API_CALL"
	CategorySecret      Category = "SECRET"
)

// Severity levels for violations
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityRank orders severities for display. Unknown severities sort last.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns the display position of a severity (lower is more severe).
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// Known reports whether the severity is one of the four defined levels.
func (s Severity) Known() bool {
	_, ok := severityRank[s]
	return ok
}

// ParseSeverity maps a case-insensitive label to a Severity.
// Unknown labels are returned upper-cased, unchanged otherwise.
func ParseSeverity(s string) Severity {
	return Severity(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseCategory maps a case-insensitive label to a Category.
func ParseCategory(s string) Category {
	return Category(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether the category is one this console has a label for.
func (c Category) Known() bool {
	switch c {
	case CategoryLibrary, CategoryCodePattern, CategoryAPICall, CategorySecret:
		return true
	}
	return false
}

// Label returns a short display label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryLibrary:
		return "library"
	case CategoryCodePattern:
		return "code pattern"
	case CategoryAPICall:
		return "api call"
	case CategorySecret:
		return "secret"
	default:
		if c == "" {
			return "uncategorized"
		}
		return strings.ToLower(string(c))
	}
}

// Violation is a single rule match inside a repository.
type Violation struct {
	RuleName     string   `json:"rule_name" yaml:"rule_name"`
	Category     Category `json:"category" yaml:"category"`
	Severity     Severity `json:"severity" yaml:"severity"`
	Description  string   `json:"description" yaml:"description"`
	MatchPreview string   `json:"match_preview" yaml:"match_preview"` // offending line, verbatim
	LineNumber   int      `json:"line_number" yaml:"line_number"`     // 1-based
}

// ScanReport is the per-repository result of a scan.
type ScanReport struct {
	Repository      string      `json:"repository" yaml:"repository"`
	Status          Status      `json:"status" yaml:"status"`
	ViolationsCount int         `json:"violations_count" yaml:"violations_count"`
	Violations      []Violation `json:"violations" yaml:"violations"`
}

// NewScanReport builds a report whose count and status are derived from
// the violations, so the aggregate invariants hold by construction.
func NewScanReport(repository string, violations []Violation) ScanReport {
	v := make([]Violation, len(violations))
	copy(v, violations)
	r := ScanReport{
		Repository: repository,
		Violations: v,
	}
	r.Reconcile()
	return r
}

// Reconcile recomputes ViolationsCount and Status from Violations.
func (r *ScanReport) Reconcile() {
	if r.Violations == nil {
		r.Violations = []Violation{}
	}
	r.ViolationsCount = len(r.Violations)
	if r.ViolationsCount > 0 {
		r.Status = StatusNonCompliant
	} else {
		r.Status = StatusCompliant
	}
}

// Compliant reports whether the repository has no violations.
func (r ScanReport) Compliant() bool {
	return r.Status == StatusCompliant
}

// Clone returns a deep copy of the report.
func (r ScanReport) Clone() ScanReport {
	c := r
	c.Violations = make([]Violation, len(r.Violations))
	copy(c.Violations, r.Violations)
	return c
}

// CloneReports deep-copies a report set.
func CloneReports(reports []ScanReport) []ScanReport {
	out := make([]ScanReport, len(reports))
	for i, r := range reports {
		out[i] = r.Clone()
	}
	return out
}
