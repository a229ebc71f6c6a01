// Package gateway is the transport layer for a gearr server: the REST
// endpoints the console pulls from and the websocket channel the server
// pushes job updates through. A bearer credential is attached to every
// call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gearr/gearr-console/internal/model"
)

const (
	// DefaultTimeout is the default timeout for REST requests.
	DefaultTimeout = 10 * time.Second
	// maxResponseSize caps response bodies (8MB); job pages can be
	// large but never this large.
	maxResponseSize = 8 * 1024 * 1024
)

var (
	// ErrUnauthorized means the server rejected the credential.
	ErrUnauthorized = errors.New("credential rejected")
	// ErrNotFound means the referenced job has vanished; callers
	// treat this as benign.
	ErrNotFound = errors.New("not found")
	// ErrNon200Status covers any other non-success HTTP status.
	ErrNon200Status = errors.New("non-success HTTP status")
)

// Client is an HTTP client for the gearr job API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// NewClient creates a new gateway client with the default timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Dialer:     websocket.DefaultDialer,
	}
}

// ListJobs fetches one page of the job list.
func (c *Client) ListJobs(ctx context.Context, page int) ([]model.Job, error) {
	var jobs []model.Job
	path := "/api/v1/job/?page=" + strconv.Itoa(page)
	if err := c.do(ctx, http.MethodGet, path, nil, &jobs); err != nil {
		return nil, fmt.Errorf("list jobs page %d: %w", page, err)
	}
	return jobs, nil
}

// GetJob fetches the full record for a single job.
func (c *Client) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := c.do(ctx, http.MethodGet, "/api/v1/job/"+id.String(), nil, &job); err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &job, nil
}

// DeleteJob asks the server to delete a job. The caller must only drop
// the job locally once this returns nil.
func (c *Client) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/job/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	return nil
}

// CreateJob schedules a new job for the given source path. The server
// may respond with the scheduled jobs or with an empty body; either
// way the actual Job materializes later via push or page refresh.
func (c *Client) CreateJob(ctx context.Context, sourcePath string) (*model.ScheduleResult, error) {
	body, err := json.Marshal(model.JobRequest{SourcePath: sourcePath})
	if err != nil {
		return nil, fmt.Errorf("encode job request: %w", err)
	}

	var result model.ScheduleResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/job/", body, &result); err != nil {
		return nil, fmt.Errorf("create job for %q: %w", sourcePath, err)
	}
	return &result, nil
}

// ListWorkers fetches the worker roster.
func (c *Client) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	if err := c.do(ctx, http.MethodGet, "/api/v1/workers/", nil, &workers); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

// do performs one REST call with the bearer credential attached and
// decodes the JSON response leniently, so the server can grow its
// payloads without breaking the console.
func (c *Client) do(ctx context.Context, method, path string, body []byte, target interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: got %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: got %d: %s", ErrNon200Status, resp.StatusCode, string(snippet))
	}

	if target == nil {
		return nil
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		// Empty success bodies are allowed (job creation).
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	return nil
}

// updatesURL converts the REST base URL into the websocket endpoint,
// with the credential as a query parameter the way the server expects
// it on the push channel.
func (c *Client) updatesURL() (string, error) {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
		// Already a websocket URL.
	default:
		return "", fmt.Errorf("unsupported scheme %q in base URL", parsed.Scheme)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/ws/job"
	query := parsed.Query()
	query.Set("token", c.Token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
