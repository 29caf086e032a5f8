package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/config"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/governance"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
)

// newScanService builds the scan backend selected by scan_mode.
func newScanService(c *config.Config) scan.Service {
	if c.ScanMode == config.ScanModeHTTP {
		return scan.NewHTTPService(c.ScanURL, c.ScanPollInterval, c.RequestTimeout)
	}
	return scan.NewMockService(c.ScanLatency)
}

// loadBaseline returns the configured baseline, or nil for the built-in set.
func loadBaseline(c *config.Config) ([]models.ScanReport, error) {
	if c.BaselineFile == "" {
		return nil, nil
	}
	reports, err := scan.LoadBaseline(c.BaselineFile)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return reports, nil
}

func newOrchestrator(c *config.Config, log logrus.FieldLogger) (*scan.Orchestrator, error) {
	baseline, err := loadBaseline(c)
	if err != nil {
		return nil, err
	}
	return scan.NewOrchestrator(newScanService(c), baseline, log), nil
}

func newGovernanceClient(c *config.Config) *governance.Client {
	return governance.New(c.GovernanceURL, c.RequestTimeout)
}

func newStore(c *config.Config, log logrus.FieldLogger) *governance.Store {
	return governance.NewStore(newGovernanceClient(c), log)
}

// scanModeLabel describes the scan backend for logs and doctor output.
func scanModeLabel(c *config.Config) string {
	if c.ScanMode == config.ScanModeHTTP {
		return fmt.Sprintf("http (%s)", c.ScanURL)
	}
	return fmt.Sprintf("mock (latency %s)", c.ScanLatency)
}
