package scan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// ErrEmptyRepository is returned when the repository identifier is blank.
var ErrEmptyRepository = errors.New("repository identifier is required")

// Service submits a repository for scanning. A nil report with a nil
// error means the backend produced no report for the identifier.
type Service interface {
	Submit(ctx context.Context, repositoryID string) (*models.ScanReport, error)
}

// DefaultLatency approximates the asynchronous completion of a real scan.
const DefaultLatency = 2500 * time.Millisecond

// DefaultSentinel marks identifiers the mock treats as newly onboarded.
const DefaultSentinel = "novo-repo"

// MockService is a deterministic stand-in for the scan backend.
type MockService struct {
	Latency  time.Duration
	Sentinel string
}

// NewMockService returns a mock with the given latency and the default sentinel.
func NewMockService(latency time.Duration) *MockService {
	return &MockService{Latency: latency, Sentinel: DefaultSentinel}
}

// Submit waits out the latency window, then returns a COMPLIANT report
// for identifiers containing the sentinel and no report otherwise.
// The substring match is a placeholder for job correlation.
func (m *MockService) Submit(ctx context.Context, repositoryID string) (*models.ScanReport, error) {
	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentinel := m.Sentinel
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	if !strings.Contains(repositoryID, sentinel) {
		return nil, nil
	}

	r := models.NewScanReport(repositoryID, nil)
	return &r, nil
}
