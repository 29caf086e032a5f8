package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/server"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/storage"
)

var (
	serveAddr      string
	serveDataDir   string
	serveWithScans bool
	serveOrigins   []string
)

var serveCmd = &cobra.Command{
	Use:   "serve-governance",
	Short: "Run a local governance API for development",
	Long: `Serve-governance answers the governance exception routes the console
calls, so the console can be exercised without the real service:

  GET    /api/governance/exceptions
  POST   /api/governance/exceptions   {"repository": "...", "lib": "..."}
  DELETE /api/governance/exceptions   {"repository": "...", "lib": "..."}

Adding an existing pair is a no-op. Removing an absent pair answers 200 with
a message. The list lives in memory unless --data-dir is set.

With --with-scans the mock scan backend is also served on /api/scans, so
scan_mode: http can point at this process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "directory holding exceptions.json (default: in memory)")
	serveCmd.Flags().BoolVar(&serveWithScans, "with-scans", false, "also serve the mock scan backend on /api/scans")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "CORS allowed origins (default: *)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	opts := server.Options{
		Log:            log,
		AllowedOrigins: serveOrigins,
	}
	if serveDataDir != "" {
		local := storage.NewLocal(serveDataDir)
		if err := local.EnsureDirectoryExists(); err != nil {
			return err
		}
		opts.Rules = local
		log.WithField("dir", local.GetStoragePath()).Info("persisting exceptions")
	}
	if serveWithScans {
		opts.Scanner = scan.NewMockService(cfg.ScanLatency)
		log.WithField("latency", cfg.ScanLatency).Info("serving mock scan backend")
	}

	srv, err := server.New(opts)
	if err != nil {
		return fmt.Errorf("start governance server: %w", err)
	}
	return srv.ListenAndServe(cmd.Context(), serveAddr)
}
