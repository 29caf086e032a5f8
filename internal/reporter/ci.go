package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// CIPassed is the whole CI log for a repository without violations.
const CIPassed = "✅ Architecture Scan Passed: No unapproved GenAI or MCP patterns detected."

// ciBlocked opens the CI log of a blocked pipeline. The wording is what
// developers already see in the pipeline and stays in Portuguese.
var ciBlocked = []string{
	"❌ ATENÇÃO: A ESTEIRA NÃO ESTÁ DE ACORDO COM OS PADRÕES DE SEGURANÇA DA EMPRESA.",
	"Bibliotecas não homologadas de LLM/Agentes ou conexões MCP foram detectadas.",
	"Por favor, solicite revisão e homologação com o time de Arquitetura de Segurança da Informação.",
	"\nDetalhes das Infrações:",
}

// CILog renders the pipeline warning for one repository report.
func CILog(report models.ScanReport) string {
	if len(report.Violations) == 0 {
		return CIPassed
	}

	lines := make([]string, 0, len(ciBlocked)+2*len(report.Violations))
	lines = append(lines, ciBlocked...)
	for _, v := range report.Violations {
		lineInfo := ""
		if v.LineNumber > 0 {
			lineInfo = fmt.Sprintf(" (Line: %d)", v.LineNumber)
		}
		lines = append(lines, fmt.Sprintf(" - [%s] %s%s: %s", v.Severity, v.RuleName, lineInfo, v.Description))
		lines = append(lines, fmt.Sprintf("   Trecho: `%s`", v.MatchPreview))
	}
	return strings.Join(lines, "\n")
}

// CILogReporter writes one CI log per repository.
type CILogReporter struct {
	writer io.Writer
}

// NewCILogReporter creates a new CI log reporter
func NewCILogReporter(writer io.Writer) *CILogReporter {
	return &CILogReporter{writer: writer}
}

// Generate writes the CI log of every report, each under its repository name.
func (r *CILogReporter) Generate(snapshot *Snapshot) error {
	for i, report := range snapshot.Reports {
		if i > 0 {
			if _, err := io.WriteString(r.writer, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(r.writer, "[%s]\n%s\n", report.Repository, CILog(report)); err != nil {
			return err
		}
	}
	return nil
}
