package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/config"
)

var configInitOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Print a sample configuration file",
	Long: `Init prints a commented sample saga.yaml. With --output the sample is
written to that path instead; an existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "", "write the sample to this path")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	sample := config.GenerateSampleConfig()
	if configInitOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), sample)
		return err
	}

	f, err := os.OpenFile(configInitOutput, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return &ValidationError{Message: fmt.Sprintf("%s already exists", configInitOutput)}
		}
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.WriteString(sample); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", configInitOutput)
	return nil
}
