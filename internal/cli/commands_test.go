package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/config"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/reporter"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/server"
)

// riskyService flags every repository it is asked about.
type riskyService struct{ scan.Service }

func (s riskyService) Submit(ctx context.Context, repositoryID string) (*models.ScanReport, error) {
	if _, err := s.Service.Submit(ctx, repositoryID); err != nil {
		return nil, err
	}
	r := models.NewScanReport(repositoryID, []models.Violation{{
		RuleName: "Direct LLM API call",
		Category: models.CategoryAPICall,
		Severity: models.SeverityHigh,
	}})
	return &r, nil
}

// --- scan ---

func TestScanSentinelJSON(t *testing.T) {
	out, _, err := run(t, "scan", "SAGA/novo-repo", "--format", "json", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var snap reporter.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not a snapshot: %v\n%s", err, out)
	}
	if snap.Summary.TotalScanned != 4 || snap.Summary.TotalAtRisk != 2 {
		t.Errorf("expected 4 scanned / 2 at risk, got %+v", snap.Summary)
	}
	if snap.Reports[0].Repository != "SAGA/novo-repo" || snap.Reports[0].Status != models.StatusCompliant {
		t.Errorf("scanned repository should lead the set: %+v", snap.Reports[0])
	}
}

func TestScanSentinelCI(t *testing.T) {
	out, _, err := run(t, "scan", "SAGA/novo-repo", "--format", "ci", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != reporter.CIPassed+"\n" {
		t.Errorf("unexpected CI log %q", out)
	}
}

func TestScanUnknownRepositoryPrintsHistory(t *testing.T) {
	out, errOut, err := run(t, "scan", "acme/unknown-repo", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Repositories Scanned: 3") {
		t.Errorf("expected audit history:\n%s", out)
	}
	if !strings.Contains(errOut, "no report returned") {
		t.Errorf("expected warning on stderr, got %q", errOut)
	}
}

func TestScanEmptyRepository(t *testing.T) {
	_, _, err := run(t, "scan", "   ", "--config", writeConfig(t))
	if err == nil {
		t.Fatal("expected error for blank repository")
	}
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
}

func TestScanFailOnRiskCompliant(t *testing.T) {
	_, _, err := run(t, "scan", "SAGA/novo-repo", "--fail-on-risk", "--config", writeConfig(t))
	if err != nil {
		t.Errorf("compliant scan should pass --fail-on-risk: %v", err)
	}
}

func TestScanFailOnRiskNonCompliant(t *testing.T) {
	// the scan backend reports violations for the submitted repository
	ts := newGovernanceServer(t, server.Options{Scanner: riskyService{scan.NewMockService(0)}})

	path := writeConfig(t, "scan_mode: http", "scan_url: "+ts.URL, "scan_poll_interval: 10ms")
	_, _, err := run(t, "scan", "SAGA/novo-repo", "--fail-on-risk", "--config", path)
	if code := HandleError(err); code != ExitPolicyFail {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitPolicyFail)
	}
}

func TestScanHTTPBackendUnreachable(t *testing.T) {
	ts := newGovernanceServer(t, server.Options{})
	url := ts.URL
	ts.Close()

	path := writeConfig(t, "scan_mode: http", "scan_url: "+url, "request_timeout: 1s")
	_, _, err := run(t, "scan", "SAGA/novo-repo", "--config", path)
	if code := HandleError(err); code != ExitRuntimeError {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitRuntimeError)
	}
}

// --- reports ---

func TestReportsYAML(t *testing.T) {
	out, _, err := run(t, "reports", "--format", "yaml", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var snap struct {
		Reports []models.ScanReport `yaml:"reports"`
	}
	if err := yaml.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(snap.Reports) != 3 {
		t.Errorf("expected 3 reports, got %d", len(snap.Reports))
	}
}

func TestReportsFailOnRisk(t *testing.T) {
	_, _, err := run(t, "reports", "--fail-on-risk", "--config", writeConfig(t))
	if code := HandleError(err); code != ExitPolicyFail {
		t.Errorf("exit code = %d, want %d", code, ExitPolicyFail)
	}
}

func TestReportsCustomBaseline(t *testing.T) {
	baseline := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(baseline, []byte(`[{"repository": "SAGA/clean", "violations": []}]`), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "reports", "--fail-on-risk", "--config", writeConfig(t, "baseline_file: "+baseline))
	if err != nil {
		t.Fatalf("a compliant baseline should pass --fail-on-risk: %v", err)
	}
	if !strings.Contains(out, "[COMPLIANT] SAGA/clean") {
		t.Errorf("expected custom baseline:\n%s", out)
	}
}

func TestReportsBadBaseline(t *testing.T) {
	baseline := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(baseline, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := run(t, "reports", "--config", writeConfig(t, "baseline_file: "+baseline))
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
}

func TestReportsUnknownFormat(t *testing.T) {
	_, _, err := run(t, "reports", "--format", "xml", "--config", writeConfig(t))
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
}

// --- exceptions ---

func TestExceptionsLifecycle(t *testing.T) {
	ts := newGovernanceServer(t, server.Options{})
	path := writeConfig(t, "governance_url: "+ts.URL)

	out, _, err := run(t, "exceptions", "list", "--config", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "No exceptions registered" {
		t.Errorf("expected empty list, got %q", out)
	}

	out, _, err = run(t, "exceptions", "add", " SAGA/meu-repo-node ", "mcp-framework", "--config", path)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if out != "SAGA/meu-repo-node: mcp-framework\n" {
		t.Errorf("unexpected add output %q", out)
	}

	out, _, err = run(t, "exceptions", "list", "--format", "json", "--config", path)
	if err != nil {
		t.Fatalf("list json: %v", err)
	}
	var listed struct {
		Exceptions []models.ExceptionRule `json:"exceptions"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := models.ExceptionRule{Repository: "SAGA/meu-repo-node", Lib: "mcp-framework"}
	if len(listed.Exceptions) != 1 || listed.Exceptions[0] != want {
		t.Errorf("unexpected exceptions %+v", listed.Exceptions)
	}

	out, _, err = run(t, "exceptions", "rm", "SAGA/meu-repo-node", "mcp-framework", "--config", path)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if strings.TrimSpace(out) != "No exceptions registered" {
		t.Errorf("expected empty list after remove, got %q", out)
	}
}

func TestExceptionsRemoveAbsentSucceeds(t *testing.T) {
	ts := newGovernanceServer(t, server.Options{})
	path := writeConfig(t, "governance_url: "+ts.URL)

	if _, _, err := run(t, "exceptions", "remove", "SAGA/x", "langchain", "--config", path); err != nil {
		t.Errorf("removing an absent pair should succeed: %v", err)
	}
}

func TestExceptionsAddBlankLib(t *testing.T) {
	ts := newGovernanceServer(t, server.Options{})
	path := writeConfig(t, "governance_url: "+ts.URL)

	_, _, err := run(t, "exceptions", "add", "SAGA/x", "  ", "--config", path)
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitInvalidInput)
	}
}

func TestExceptionsListUnreachable(t *testing.T) {
	ts := newGovernanceServer(t, server.Options{})
	url := ts.URL
	ts.Close()

	_, _, err := run(t, "exceptions", "list", "--config", writeConfig(t, "governance_url: "+url, "request_timeout: 1s"))
	if code := HandleError(err); code != ExitRuntimeError {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitRuntimeError)
	}
}

// --- config init ---

func TestConfigInitPrintsSample(t *testing.T) {
	out, _, err := run(t, "config", "init", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != config.GenerateSampleConfig() {
		t.Error("expected the sample config on stdout")
	}
}

func TestConfigInitWritesFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "saga.yaml")

	if _, _, err := run(t, "config", "init", "-o", target, "--config", writeConfig(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := config.LoadFromFile(target); err != nil {
		t.Errorf("written sample should load: %v", err)
	}

	// never overwrite
	_, _, err := run(t, "config", "init", "-o", target, "--config", writeConfig(t))
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
}
