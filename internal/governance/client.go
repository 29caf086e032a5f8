package governance

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

// ExceptionsPath is the governance resource holding allow-list overrides.
const ExceptionsPath = "/api/governance/exceptions"

// Client talks to the governance service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a governance API client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// exceptionsResponse is the body of GET /api/governance/exceptions.
type exceptionsResponse struct {
	Exceptions []models.ExceptionRule `json:"exceptions"`
}

// ListExceptions fetches the current exception set.
func (c *Client) ListExceptions(ctx context.Context) ([]models.ExceptionRule, error) {
	resp, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, &TransportError{Op: "list exceptions", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "list exceptions", StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var body exceptionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &TransportError{Op: "list exceptions", Err: fmt.Errorf("decode response: %w", err)}
	}
	if body.Exceptions == nil {
		body.Exceptions = []models.ExceptionRule{}
	}
	return body.Exceptions, nil
}

// AddException asks the governance service to exempt lib for repository.
func (c *Client) AddException(ctx context.Context, repository, lib string) error {
	in, err := validate(repository, lib)
	if err != nil {
		return err
	}
	return c.write(ctx, http.MethodPost, "add exception", in, http.StatusOK, http.StatusCreated)
}

// RemoveException deletes the exact (repository, lib) pair. A pair the
// service no longer holds is not an error as long as the service answers
// with a success status.
func (c *Client) RemoveException(ctx context.Context, repository, lib string) error {
	if err := requirePair(repository, lib); err != nil {
		return err
	}
	in := api.ExceptionInput{Repository: repository, Lib: lib}
	return c.write(ctx, http.MethodDelete, "remove exception", in, http.StatusOK, http.StatusNoContent)
}

// Ping checks that the governance service answers the list endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListExceptions(ctx)
	return err
}

func (c *Client) write(ctx context.Context, method, op string, in api.ExceptionInput, okCodes ...int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal exception: %w", err)
	}

	resp, err := c.do(ctx, method, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	for _, code := range okCodes {
		if resp.StatusCode == code {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
	}
	return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
}

func (c *Client) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ExceptionsPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(api.RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// validate trims and checks an exception pair, returning a ValidationError
// naming the first missing field.
func validate(repository, lib string) (api.ExceptionInput, error) {
	in := api.ExceptionInput{Repository: repository, Lib: lib}.Trimmed()
	if err := api.ValidateRepository(in.Repository); err != nil {
		return in, &ValidationError{Field: "repository", Message: err.Error()}
	}
	if err := api.ValidateLib(in.Lib); err != nil {
		return in, &ValidationError{Field: "lib", Message: err.Error()}
	}
	return in, nil
}

// requirePair checks that both fields of a pair to remove are present.
func requirePair(repository, lib string) error {
	if err := api.ValidatePair(api.ExceptionInput{Repository: repository, Lib: lib}); err != nil {
		field := "lib"
		if strings.TrimSpace(repository) == "" {
			field = "repository"
		}
		return &ValidationError{Field: field, Message: err.Error()}
	}
	return nil
}

// errorMessage extracts "detail", "error" or "msg" from a JSON error body.
func errorMessage(r io.Reader) string {
	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	for _, k := range []string{"detail", "error", "msg"} {
		if s, ok := body[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
