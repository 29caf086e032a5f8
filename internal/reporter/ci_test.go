package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

func TestCILogPassed(t *testing.T) {
	if got := CILog(models.NewScanReport("SAGA/clean", nil)); got != CIPassed {
		t.Errorf("unexpected log %q", got)
	}
}

func TestCILogBlocked(t *testing.T) {
	got := CILog(sampleReports()[0])

	want := strings.Join([]string{
		"❌ ATENÇÃO: A ESTEIRA NÃO ESTÁ DE ACORDO COM OS PADRÕES DE SEGURANÇA DA EMPRESA.",
		"Bibliotecas não homologadas de LLM/Agentes ou conexões MCP foram detectadas.",
		"Por favor, solicite revisão e homologação com o time de Arquitetura de Segurança da Informação.",
		"",
		"Detalhes das Infrações:",
		" - [CRITICAL] Node.js GenAI/MCP Library (Line: 12): Identified usage of unapproved GenAI or MCP library in Node.js ecosystem",
		"   Trecho: `\"mcp-framework\": \"^1.0.0\",`",
	}, "\n")

	if got != want {
		t.Errorf("unexpected log:\n%s\nwant:\n%s", got, want)
	}
}

func TestCILogOmitsUnknownLine(t *testing.T) {
	report := models.NewScanReport("SAGA/x", []models.Violation{
		{RuleName: "OpenAI key", Severity: models.SeverityHigh, Description: "hardcoded key", MatchPreview: "sk-..."},
	})

	got := CILog(report)
	if !strings.Contains(got, " - [HIGH] OpenAI key: hardcoded key") {
		t.Errorf("unexpected violation line:\n%s", got)
	}
	if strings.Contains(got, "(Line:") {
		t.Error("line 0 should be omitted")
	}
}

func TestCILogReporterGenerate(t *testing.T) {
	var buf bytes.Buffer
	r := NewCILogReporter(&buf)

	if err := r.Generate(sampleSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "[SAGA/meu-repo-node]\n❌") {
		t.Errorf("expected first repository block, got:\n%s", output)
	}
	if !strings.Contains(output, "\n\n[SAGA/payment-gateway-api]\n"+CIPassed+"\n") {
		t.Errorf("expected compliant block:\n%s", output)
	}
	if strings.Count(output, "Detalhes das Infrações:") != 2 {
		t.Error("expected one details section per non-compliant repository")
	}
}
