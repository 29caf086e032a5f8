package aggregator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// maxPreviewLength matches the snippet length the scanner keeps.
const maxPreviewLength = 200

// Normalizer converts scanner output into reports that satisfy the
// count and status invariants.
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize cleans one report. The reported count and status are ignored
// and recomputed from the violation list.
func (n *Normalizer) Normalize(r models.ScanReport) (models.ScanReport, error) {
	repo := strings.TrimSpace(r.Repository)
	if repo == "" {
		return models.ScanReport{}, fmt.Errorf("report has no repository")
	}

	violations := make([]models.Violation, 0, len(r.Violations))
	for _, v := range r.Violations {
		violations = append(violations, n.normalizeViolation(v))
	}

	return models.NewScanReport(repo, violations), nil
}

// NormalizeSet normalizes a report set, preserving order. Repository
// identifiers are unique within a set; the first occurrence wins.
func (n *Normalizer) NormalizeSet(reports []models.ScanReport) ([]models.ScanReport, error) {
	out := make([]models.ScanReport, 0, len(reports))
	seen := make(map[string]bool, len(reports))

	for i, r := range reports {
		nr, err := n.Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
		if seen[nr.Repository] {
			continue
		}
		seen[nr.Repository] = true
		out = append(out, nr)
	}

	return out, nil
}

func (n *Normalizer) normalizeViolation(v models.Violation) models.Violation {
	v.RuleName = strings.TrimSpace(v.RuleName)
	v.Severity = models.ParseSeverity(string(v.Severity))
	v.Category = models.ParseCategory(string(v.Category))
	if v.LineNumber < 1 {
		// unknown line; renderers omit it
		v.LineNumber = 0
	}
	if utf8.RuneCountInString(v.MatchPreview) > maxPreviewLength {
		v.MatchPreview = string([]rune(v.MatchPreview)[:maxPreviewLength])
	}
	return v
}
