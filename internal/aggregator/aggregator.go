package aggregator

import (
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// Summary holds derived, read-only figures for a report set.
// It is computed on demand and must not be stored alongside the set.
type Summary struct {
	TotalScanned         int                     `json:"total_scanned" yaml:"total_scanned"`
	TotalAtRisk          int                     `json:"total_at_risk" yaml:"total_at_risk"`
	TotalViolations      int                     `json:"total_violations" yaml:"total_violations"`
	ViolationsBySeverity map[models.Severity]int `json:"violations_by_severity" yaml:"violations_by_severity"`
	ViolationsByCategory map[models.Category]int `json:"violations_by_category" yaml:"violations_by_category"`
}

// Summarize computes the dashboard figures for the given report set.
func Summarize(reports []models.ScanReport) Summary {
	s := Summary{
		TotalScanned:         len(reports),
		ViolationsBySeverity: make(map[models.Severity]int),
		ViolationsByCategory: make(map[models.Category]int),
	}

	for _, r := range reports {
		if r.Status == models.StatusNonCompliant {
			s.TotalAtRisk++
		}
		s.TotalViolations += len(r.Violations)
		for _, v := range r.Violations {
			s.ViolationsBySeverity[v.Severity]++
			s.ViolationsByCategory[v.Category]++
		}
	}

	return s
}

// Totals returns (totalScanned, totalAtRisk) for the report set.
func Totals(reports []models.ScanReport) (int, int) {
	atRisk := 0
	for _, r := range reports {
		if r.Status == models.StatusNonCompliant {
			atRisk++
		}
	}
	return len(reports), atRisk
}

// AtRisk returns the NON_COMPLIANT reports in their original order.
func AtRisk(reports []models.ScanReport) []models.ScanReport {
	var out []models.ScanReport
	for _, r := range reports {
		if r.Status == models.StatusNonCompliant {
			out = append(out, r)
		}
	}
	return out
}
