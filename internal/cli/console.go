package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive console",
	Long: `Open the full-screen console: scan a repository, browse the audit
history dashboard and manage governance exceptions.

Logs go to log_file so the screen is not disturbed.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	log, closeLog, err := logging.OpenFile(cfg.EffectiveLogLevel(), cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = closeLog() }()

	orch, err := newOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	log.WithField("scan_mode", scanModeLabel(cfg)).
		WithField("governance_url", cfg.GovernanceURL).
		Info("console starting")

	err = tui.Run(cmd.Context(), tui.Deps{
		Orchestrator: orch,
		Store:        newStore(cfg, log),
		Log:          log,
	})
	if err != nil {
		log.WithError(err).Error("console exited with error")
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
