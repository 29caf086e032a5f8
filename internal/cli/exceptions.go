package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/reporter"
)

var exceptionsFormat string

var exceptionsCmd = &cobra.Command{
	Use:     "exceptions",
	Aliases: []string{"exc"},
	Short:   "List, add or remove governance exceptions",
	Long: `Exceptions manages the governance service's exception list. Each rule
exempts one lib or pattern from blocking for one repository.

Writes print the list as the service holds it afterwards.`,
}

var exceptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the exception list",
	Args:  cobra.NoArgs,
	RunE:  runExceptionsList,
}

var exceptionsAddCmd = &cobra.Command{
	Use:   "add <repository> <lib>",
	Short: "Add an exception",
	Args:  cobra.ExactArgs(2),
	RunE:  runExceptionsAdd,
}

var exceptionsRemoveCmd = &cobra.Command{
	Use:     "remove <repository> <lib>",
	Aliases: []string{"rm"},
	Short:   "Remove an exception (exact repository + lib pair)",
	Args:    cobra.ExactArgs(2),
	RunE:    runExceptionsRemove,
}

func init() {
	exceptionsCmd.PersistentFlags().StringVar(&exceptionsFormat, "format", "",
		"output format: text, json or yaml (default from config)")

	exceptionsCmd.AddCommand(exceptionsListCmd)
	exceptionsCmd.AddCommand(exceptionsAddCmd)
	exceptionsCmd.AddCommand(exceptionsRemoveCmd)
}

// runExceptionsList calls the client directly so an unreachable service
// is an error here rather than an empty list.
func runExceptionsList(cmd *cobra.Command, args []string) error {
	rules, err := newGovernanceClient(cfg).ListExceptions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list exceptions: %w", err)
	}
	return reporter.GenerateExceptions(cmd.OutOrStdout(), outputFormat(exceptionsFormat), rules)
}

func runExceptionsAdd(cmd *cobra.Command, args []string) error {
	store := newStore(cfg, newLogger(cmd.ErrOrStderr()))
	rules, err := store.Add(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("add exception: %w", err)
	}
	return reporter.GenerateExceptions(cmd.OutOrStdout(), outputFormat(exceptionsFormat), rules)
}

func runExceptionsRemove(cmd *cobra.Command, args []string) error {
	store := newStore(cfg, newLogger(cmd.ErrOrStderr()))
	rules, err := store.Remove(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("remove exception: %w", err)
	}
	return reporter.GenerateExceptions(cmd.OutOrStdout(), outputFormat(exceptionsFormat), rules)
}
