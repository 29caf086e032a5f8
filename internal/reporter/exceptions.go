package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// exceptionList mirrors the governance service's list payload.
type exceptionList struct {
	Exceptions []models.ExceptionRule `json:"exceptions" yaml:"exceptions"`
}

// GenerateExceptions writes an exception list. Text and CI formats print
// one "repository: lib" line per rule.
func GenerateExceptions(w io.Writer, format string, rules []models.ExceptionRule) error {
	if rules == nil {
		rules = []models.ExceptionRule{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(exceptionList{Exceptions: rules}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		return encodeYAML(w, exceptionList{Exceptions: rules})
	case FormatText, FormatCI, "":
		if len(rules) == 0 {
			_, err := fmt.Fprintln(w, "No exceptions registered")
			return err
		}
		for _, rule := range rules {
			if _, err := fmt.Fprintln(w, rule.String()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
