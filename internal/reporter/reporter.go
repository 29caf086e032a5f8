package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCI   = "ci"
)

// Snapshot is a report set together with the totals derived from it.
type Snapshot struct {
	Timestamp time.Time           `json:"timestamp" yaml:"timestamp"`
	Summary   aggregator.Summary  `json:"summary" yaml:"summary"`
	Reports   []models.ScanReport `json:"reports" yaml:"reports"`
}

// NewSnapshot computes the summary for reports. The reports are copied.
func NewSnapshot(reports []models.ScanReport, at time.Time) *Snapshot {
	return &Snapshot{
		Timestamp: at,
		Summary:   aggregator.Summarize(reports),
		Reports:   models.CloneReports(reports),
	}
}

// Reporter renders a snapshot.
type Reporter interface {
	Generate(snapshot *Snapshot) error
}

// New returns the reporter for format.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(w), nil
	case FormatJSON:
		return NewJSONReporter(w, true), nil
	case FormatYAML:
		return NewYAMLReporter(w), nil
	case FormatCI:
		return NewCILogReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
