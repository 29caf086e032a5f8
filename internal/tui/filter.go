package tui

import (
	"sort"
	"strings"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	SearchText string
}

// sortField enumerates orderings of the report table.
type sortField int

const (
	sortByScanOrder sortField = iota
	sortByRisk
	sortByRepository
	sortByViolations
)

// sortFieldCount is the total number of orderings.
const sortFieldCount = 4

// applyFilters returns reports matching all active filters.
func applyFilters(reports []models.ScanReport, f filterState) []models.ScanReport {
	result := make([]models.ScanReport, 0, len(reports))
	searchLower := strings.ToLower(f.SearchText)

	for _, r := range reports {
		if searchLower != "" && !matchesSearch(r, searchLower) {
			continue
		}
		result = append(result, r)
	}
	return result
}

func matchesSearch(r models.ScanReport, searchLower string) bool {
	if strings.Contains(strings.ToLower(r.Repository), searchLower) ||
		strings.Contains(strings.ToLower(string(r.Status)), searchLower) {
		return true
	}
	for _, v := range r.Violations {
		if strings.Contains(strings.ToLower(v.RuleName), searchLower) ||
			strings.Contains(strings.ToLower(v.MatchPreview), searchLower) ||
			strings.Contains(strings.ToLower(string(v.Severity)), searchLower) {
			return true
		}
	}
	return false
}

// sortReports sorts a slice of reports in place by the given field.
// sortByScanOrder keeps the order the scan produced.
func sortReports(reports []models.ScanReport, field sortField) {
	sort.SliceStable(reports, func(i, j int) bool {
		switch field {
		case sortByRisk:
			return worstRank(reports[i]) < worstRank(reports[j])
		case sortByRepository:
			return reports[i].Repository < reports[j].Repository
		case sortByViolations:
			return reports[i].ViolationsCount > reports[j].ViolationsCount
		default:
			return false
		}
	})
}

// worstRank ranks compliant reports after every non-compliant one.
func worstRank(r models.ScanReport) int {
	if r.Compliant() {
		return models.Severity("").Rank() + 1
	}
	return worstSeverity(r).Rank()
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortByScanOrder:
		return "scan order"
	case sortByRisk:
		return "risk"
	case sortByRepository:
		return "repository"
	case sortByViolations:
		return "violations"
	default:
		return "unknown"
	}
}
