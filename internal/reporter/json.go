package reporter

import (
	"encoding/json"
	"io"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// JSONReporter generates machine-readable JSON reports
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes the whole snapshot
func (r *JSONReporter) Generate(snapshot *Snapshot) error {
	return r.write(snapshot)
}

// GenerateReport writes a single repository report in the scanner's wire
// format, the payload a dashboard ingests.
func (r *JSONReporter) GenerateReport(report models.ScanReport) error {
	report.Reconcile()
	return r.write(report)
}

func (r *JSONReporter) write(v any) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}
