package reporter

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLReporter writes snapshots as YAML documents.
type YAMLReporter struct {
	writer io.Writer
}

// NewYAMLReporter creates a new YAML reporter
func NewYAMLReporter(writer io.Writer) *YAMLReporter {
	return &YAMLReporter{writer: writer}
}

// Generate writes the snapshot as one YAML document.
func (r *YAMLReporter) Generate(snapshot *Snapshot) error {
	return encodeYAML(r.writer, snapshot)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
