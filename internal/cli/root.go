package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/config"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/governance"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

const (
	ExitOK           = 0 // Success
	ExitPolicyFail   = 1 // Repositories at risk with --fail-on-risk
	ExitInvalidInput = 2 // Bad arguments, config or exception input
	ExitRuntimeError = 3 // Network, I/O or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// buildVersion is set from main
	buildVersion = "dev"

	// isTerminal decides whether the bare command opens the console
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "saga",
	Short: "SAGA - Shadow AI governance console",
	Long: `SAGA is the operator console for Shadow AI and MCP architecture scans.

It provides:
- Ad-hoc repository scans with an audit-history dashboard
- Totals of scanned and at-risk repositories with per-rule detail
- Management of the governance exception list (repository + lib)
- CI-friendly output and exit codes

Run without arguments on a terminal to open the console.

Quick start:
  saga config init > saga.yaml
  saga doctor
  saga scan SAGA/novo-repo
  saga exceptions list

Development:
  saga serve-governance --with-scans`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("failed to load config: %v", err)}
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isTerminal() {
			return runConsole(cmd, args)
		}
		return runReports(cmd, args)
	},
}

// Execute runs the root command and exits with the code for its error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

// SetVersion records the build version for the version command
func SetVersion(v string) {
	buildVersion = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./saga.yaml, ~/saga.yaml or $XDG_CONFIG_HOME/saga/saga.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	// Add subcommands
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(exceptionsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "SAGA console %s\n", buildVersion)
		fmt.Fprintln(out, "Shadow AI and MCP governance")
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var ve *ValidationError
	var re *RiskFoundError
	switch {
	case errors.As(err, &ve), governance.IsValidation(err), errors.Is(err, scan.ErrEmptyRepository):
		return ExitInvalidInput
	case errors.As(err, &re):
		return ExitPolicyFail
	default:
		return ExitRuntimeError
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RiskFoundError is returned by --fail-on-risk when any repository is
// NON_COMPLIANT
type RiskFoundError struct {
	AtRisk  int
	Scanned int
}

func (e *RiskFoundError) Error() string {
	return fmt.Sprintf("%d of %d repositories at risk", e.AtRisk, e.Scanned)
}

// newLogger returns the logger for headless commands, writing to w
func newLogger(w io.Writer) *logrus.Logger {
	if cfg == nil {
		return logging.New(logrus.InfoLevel, w)
	}
	return logging.New(cfg.EffectiveLogLevel(), w)
}
