package scan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// Result is the outcome of one ad-hoc scan.
type Result struct {
	Repository string              `json:"repository"`
	Report     *models.ScanReport  `json:"report,omitempty"` // nil when the backend produced none
	Reports    []models.ScanReport `json:"reports"`          // the new active report set
	Duration   time.Duration       `json:"duration"`
}

// Orchestrator runs scans against a Service and builds the report set the
// dashboard shows afterwards.
type Orchestrator struct {
	service    Service
	baseline   []models.ScanReport
	normalizer *aggregator.Normalizer
	log        logrus.FieldLogger
}

// NewOrchestrator creates an orchestrator. A nil baseline uses DefaultBaseline.
func NewOrchestrator(service Service, baseline []models.ScanReport, log logrus.FieldLogger) *Orchestrator {
	if baseline == nil {
		baseline = DefaultBaseline()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{
		service:    service,
		baseline:   models.CloneReports(baseline),
		normalizer: aggregator.NewNormalizer(),
		log:        log,
	}
}

// Baseline returns a copy of the baseline report set.
func (o *Orchestrator) Baseline() []models.ScanReport {
	return models.CloneReports(o.baseline)
}

// Run scans repositoryID. The returned set is the baseline with the new
// report prepended; a baseline entry for the same repository is replaced.
// When the service yields no report the baseline is returned unchanged.
func (o *Orchestrator) Run(ctx context.Context, repositoryID string) (*Result, error) {
	repo := strings.TrimSpace(repositoryID)
	if repo == "" {
		return nil, ErrEmptyRepository
	}

	log := o.log.WithField("repository", repo)
	log.Info("scan submitted")
	started := time.Now()

	report, err := o.service.Submit(ctx, repo)
	if err != nil {
		log.WithError(err).Error("scan failed")
		return nil, fmt.Errorf("scan %s: %w", repo, err)
	}

	res := &Result{
		Repository: repo,
		Duration:   time.Since(started),
	}

	if report == nil {
		log.Info("scan produced no report")
		res.Reports = o.Baseline()
		return res, nil
	}

	normalized, err := o.normalizer.Normalize(*report)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", repo, err)
	}
	res.Report = &normalized
	res.Reports = prepend(normalized, o.Baseline())

	log.WithFields(logrus.Fields{
		"status":     normalized.Status,
		"violations": normalized.ViolationsCount,
	}).Info("scan completed")
	return res, nil
}

func prepend(r models.ScanReport, set []models.ScanReport) []models.ScanReport {
	out := make([]models.ScanReport, 0, len(set)+1)
	out = append(out, r)
	for _, existing := range set {
		if existing.Repository == r.Repository {
			continue
		}
		out = append(out, existing)
	}
	return out
}
