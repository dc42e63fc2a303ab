// Package backend implements the client for the owning backend service.
// It handles authentication (token caching with retry-on-unauthorized),
// fetching student snapshots and submitting derived wellbeing and guidance
// results.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL.
	BaseURL string

	// Username and Password authenticate the service principal.
	Username string
	Password string

	// Timeout is the HTTP request timeout for data reads and writes.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables request-level debug logging.
	Debug bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		Username: "admin",
		Timeout:  10 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the backend API client. All calls attach the cached bearer token
// when available; a 401/403 response invalidates the cache and the call is
// retried exactly once with a freshly fetched token. A second 401/403 is
// terminal. No other retries are performed: call failure is a leaf outcome
// reported to the orchestrator.
type Client struct {
	config     Config
	httpClient *http.Client
	session    *Session
	logger     *slog.Logger
}

// NewClient creates a new backend client.
func NewClient(config Config) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Username == "" {
		config.Username = "admin"
	}

	httpClient := &http.Client{Timeout: config.Timeout}

	return &Client{
		config:     config,
		httpClient: httpClient,
		session:    NewSession(config.BaseURL, config.Username, config.Password, httpClient, config.Logger),
		logger:     config.Logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// AuthConfigured reports whether login credentials are present.
func (c *Client) AuthConfigured() bool { return c.session.Configured() }

// Session exposes the credential cache, mainly for tests.
func (c *Client) Session() *Session { return c.session }

// ══════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentInfo fetches the immutable student snapshot.
func (c *Client) GetStudentInfo(ctx context.Context, studentID int64) (*student.Snapshot, error) {
	path := fmt.Sprintf("/student/info/%d", studentID)

	var snapshot student.Snapshot
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &snapshot, http.StatusOK); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SaveWellbeing submits the derived wellbeing assessment.
func (c *Client) SaveWellbeing(ctx context.Context, studentID int64, payload WellbeingPayload) error {
	path := fmt.Sprintf("/wellbeing/%d", studentID)
	return c.doRequest(ctx, http.MethodPost, path, payload, nil, http.StatusCreated)
}

// SaveGuidance submits the generated guidance set for a date.
func (c *Client) SaveGuidance(ctx context.Context, studentID int64, payload GuidancePayload) error {
	path := fmt.Sprintf("/guidance/%d", studentID)
	return c.doRequest(ctx, http.MethodPost, path, payload, nil, http.StatusCreated)
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest executes a request with the auth-retry policy: on 401/403 the
// cached token is invalidated and the request repeated once with a fresh
// token; a second 401/403 becomes a terminal AuthError.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, wantStatus int) error {
	status, respBody, err := c.doSingleRequest(ctx, method, path, body, result)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.session.Invalidate()
		c.logger.Info("retrying backend call with refreshed token", "method", method, "path", path)

		status, respBody, err = c.doSingleRequest(ctx, method, path, body, result)
		if err != nil {
			return err
		}
	}

	if status != wantStatus {
		return statusError(status, respBody)
	}
	return nil
}

// doSingleRequest performs one HTTP round trip. A non-2xx status is returned
// to the caller for classification; only transport failures are errors here.
func (c *Client) doSingleRequest(ctx context.Context, method, path string, body, result interface{}) (int, string, error) {
	fullURL := c.config.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, "", fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token, ok := c.session.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.config.Debug {
		c.logger.Debug("backend request", "method", method, "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", connectionError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", connectionError(err)
	}

	if result != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return 0, "", fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return resp.StatusCode, string(respBody), nil
}

// IsHealthy checks if the backend is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
