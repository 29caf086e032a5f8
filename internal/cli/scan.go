package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/reporter"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

var (
	scanFormat     string
	scanFailOnRisk bool

	reportsFormat     string
	reportsFailOnRisk bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <repository>",
	Short: "Scan one repository and print the resulting report set",
	Long: `Scan submits a repository to the scan backend, merges the result into the
audit history and prints the combined report set.

With --format ci only the scanned repository's CI log is printed. When the
backend returns no report the audit history is printed unchanged.

Exit codes:
  0  success
  1  the scanned repository is NON_COMPLIANT (with --fail-on-risk)
  2  empty repository identifier or bad configuration
  3  scan backend failure`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Print the audit history report set",
	Long: `Reports prints the baseline audit history with its totals. The default
command does this too when stdout is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: runReports,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "", "output format: text, json, yaml or ci (default from config)")
	scanCmd.Flags().BoolVar(&scanFailOnRisk, "fail-on-risk", false, "exit 1 when the scanned repository is NON_COMPLIANT")

	reportsCmd.Flags().StringVar(&reportsFormat, "format", "", "output format: text, json, yaml or ci (default from config)")
	reportsCmd.Flags().BoolVar(&reportsFailOnRisk, "fail-on-risk", false, "exit 1 when any repository is NON_COMPLIANT")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	orch, err := newOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	format := outputFormat(scanFormat)
	log.WithField("repository", args[0]).WithField("backend", scanModeLabel(cfg)).Debug("scan requested")

	res, err := orch.Run(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, scan.ErrEmptyRepository) {
			return &ValidationError{Message: err.Error()}
		}
		return fmt.Errorf("scan %s: %w", args[0], err)
	}
	if res.Report == nil {
		log.WithField("repository", res.Repository).Warn("no report returned; printing audit history")
	}

	out := cmd.OutOrStdout()
	if format == reporter.FormatCI && res.Report != nil {
		if _, err := fmt.Fprintln(out, reporter.CILog(*res.Report)); err != nil {
			return err
		}
	} else if err := render(out, format, res.Reports); err != nil {
		return err
	}

	if scanFailOnRisk && res.Report != nil && !res.Report.Compliant() {
		return &RiskFoundError{AtRisk: 1, Scanned: 1}
	}
	return nil
}

func runReports(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	orch, err := newOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	baseline := orch.Baseline()
	if err := render(cmd.OutOrStdout(), outputFormat(reportsFormat), baseline); err != nil {
		return err
	}

	if reportsFailOnRisk {
		if scanned, atRisk := aggregator.Totals(baseline); atRisk > 0 {
			return &RiskFoundError{AtRisk: atRisk, Scanned: scanned}
		}
	}
	return nil
}

// outputFormat resolves a --format flag against the configured default
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Format
}

func render(w io.Writer, format string, reports []models.ScanReport) error {
	rep, err := reporter.New(format, w)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return rep.Generate(reporter.NewSnapshot(reports, time.Now()))
}
