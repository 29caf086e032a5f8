package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/config"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your SAGA setup end-to-end:

  1. Config file: found and readable?
  2. Governance API: reachable?
  3. Scan backend: mock, or a reachable scan service?
  4. Baseline: built-in or a loadable file?
  5. Log file: directory writable?

Fix the issues it reports, then run 'saga' with confidence.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	checks := []doctorCheck{
		checkConfig(),
		checkGovernance(ctx, cfg),
		checkScanBackend(ctx, cfg),
		checkBaseline(cfg),
		checkLogFile(cfg),
	}

	result := doctorResult{Checks: checks, Summary: summarizeChecks(checks)}

	out := cmd.OutOrStdout()
	if doctorFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(out, result)
}

func summarizeChecks(checks []doctorCheck) string {
	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	switch {
	case fails > 0:
		return fmt.Sprintf("%d issue(s) found", fails)
	case warns > 0:
		return fmt.Sprintf("ok with %d warning(s)", warns)
	default:
		return "all checks passed"
	}
}

func writeDoctorText(w io.Writer, result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Fprintf(w, "  %s %-20s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Fprintf(w, "  %s %s\n", icon, c.Name)
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", result.Summary)
	return err
}

func checkConfig() doctorCheck {
	candidates := []string{configFile}
	if configFile == "" {
		candidates = []string{"saga.yaml", config.ConfigPath()}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return doctorCheck{Name: "config", Status: "ok", Detail: path}
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "warn",
		Detail: "no config file found (using defaults). Run: saga config init > saga.yaml",
	}
}

func checkGovernance(ctx context.Context, c *config.Config) doctorCheck {
	client := newGovernanceClient(c)
	if err := client.Ping(ctx); err != nil {
		return doctorCheck{
			Name:   "governance",
			Status: "fail",
			Detail: fmt.Sprintf("unreachable (%v)", err),
		}
	}
	return doctorCheck{Name: "governance", Status: "ok", Detail: client.BaseURL()}
}

func checkScanBackend(ctx context.Context, c *config.Config) doctorCheck {
	if c.ScanMode != config.ScanModeHTTP {
		return doctorCheck{Name: "scan", Status: "ok", Detail: scanModeLabel(c)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ScanURL+scan.ScansPath, nil)
	if err != nil {
		return doctorCheck{Name: "scan", Status: "fail", Detail: fmt.Sprintf("bad scan_url (%v)", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return doctorCheck{
			Name:   "scan",
			Status: "fail",
			Detail: fmt.Sprintf("unreachable (%v)", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// any answer below 500 means something is listening on the route
	if resp.StatusCode >= http.StatusInternalServerError {
		return doctorCheck{
			Name:   "scan",
			Status: "fail",
			Detail: fmt.Sprintf("unhealthy (HTTP %d)", resp.StatusCode),
		}
	}
	return doctorCheck{Name: "scan", Status: "ok", Detail: scanModeLabel(c)}
}

func checkBaseline(c *config.Config) doctorCheck {
	if c.BaselineFile == "" {
		return doctorCheck{
			Name:   "baseline",
			Status: "ok",
			Detail: fmt.Sprintf("built-in (%d reports)", len(scan.DefaultBaseline())),
		}
	}

	reports, err := scan.LoadBaseline(c.BaselineFile)
	if err != nil {
		return doctorCheck{Name: "baseline", Status: "fail", Detail: err.Error()}
	}
	if len(reports) == 0 {
		return doctorCheck{
			Name:   "baseline",
			Status: "warn",
			Detail: fmt.Sprintf("%s holds no reports", c.BaselineFile),
		}
	}
	return doctorCheck{
		Name:   "baseline",
		Status: "ok",
		Detail: fmt.Sprintf("%s (%d reports)", c.BaselineFile, len(reports)),
	}
}

func checkLogFile(c *config.Config) doctorCheck {
	dir := filepath.Dir(c.LogFile)

	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{
			Name:   "log file",
			Status: "fail",
			Detail: fmt.Sprintf("%s: directory does not exist", dir),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:   "log file",
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", dir),
		}
	}

	// Try writing a temp file to check write access
	tmp, err := os.CreateTemp(dir, ".saga-doctor-*")
	if err != nil {
		return doctorCheck{
			Name:   "log file",
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", dir, err),
		}
	}
	_ = tmp.Close()
	_ = os.Remove(tmp.Name())

	return doctorCheck{Name: "log file", Status: "ok", Detail: c.LogFile}
}
