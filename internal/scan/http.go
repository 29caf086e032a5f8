package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/api"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// ScansPath is the scan submission resource.
const ScansPath = "/api/scans"

// Job states reported by the scan service.
const (
	JobPending = "pending"
	JobDone    = "done"
	JobFailed  = "failed"
)

// SubmitRequest is the body of POST /api/scans.
type SubmitRequest struct {
	Repository string `json:"repository"`
}

// JobResponse is returned by POST /api/scans and GET /api/scans/{id}.
type JobResponse struct {
	JobID      string             `json:"job_id"`
	Repository string             `json:"repository"`
	Status     string             `json:"status"`
	Report     *models.ScanReport `json:"report,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// HTTPService submits scans to a remote scan service and polls the
// returned job until it completes.
type HTTPService struct {
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewHTTPService creates an HTTP-backed scan service.
func NewHTTPService(baseURL string, pollInterval, timeout time.Duration) *HTTPService {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPService{
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Submit posts the repository and waits for the job to finish or ctx to end.
func (s *HTTPService) Submit(ctx context.Context, repositoryID string) (*models.ScanReport, error) {
	body, err := json.Marshal(SubmitRequest{Repository: repositoryID})
	if err != nil {
		return nil, fmt.Errorf("marshal scan request: %w", err)
	}

	job, err := s.call(ctx, http.MethodPost, ScansPath, body)
	if err != nil {
		return nil, fmt.Errorf("submit scan: %w", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		switch job.Status {
		case JobDone:
			return job.Report, nil
		case JobFailed:
			msg := job.Error
			if msg == "" {
				msg = "scan job failed"
			}
			return nil, fmt.Errorf("scan job %s: %s", job.JobID, msg)
		case JobPending:
		default:
			return nil, fmt.Errorf("scan job %s: unknown status %q", job.JobID, job.Status)
		}

		if job.JobID == "" {
			return nil, fmt.Errorf("scan service returned a pending job without id")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		job, err = s.call(ctx, http.MethodGet, ScansPath+"/"+job.JobID, nil)
		if err != nil {
			return nil, fmt.Errorf("poll scan job: %w", err)
		}
	}
}

func (s *HTTPService) call(ctx context.Context, method, path string, body []byte) (*JobResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(api.RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("scan API error (HTTP %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var probe struct {
		JobID *string `json:"job_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if probe.JobID == nil {
		// a bare report: the scan finished synchronously
		var report models.ScanReport
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		return &JobResponse{Repository: report.Repository, Status: JobDone, Report: &report}, nil
	}

	var job JobResponse
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
