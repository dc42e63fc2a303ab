package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// Session holds the process-wide cached bearer credential for the backend
// service principal. Lifecycle: absent at startup, populated lazily on the
// first successful login, cleared on any authorization failure, and
// re-populated on the next call.
//
// The mutex is held across the login request, so at most one login is in
// flight at a time. Login failures are logged and reported as "no token",
// never as errors: callers proceed unauthenticated and let the downstream
// call fail its own auth check.
type Session struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	token string
}

// NewSession creates a session cache for the given credentials.
func NewSession(baseURL, username, password string, httpClient *http.Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether login credentials are present.
func (s *Session) Configured() bool {
	return s.password != ""
}

// Token returns the cached bearer token, logging in first if the cache is
// empty. The second return value is false when no token could be obtained.
func (s *Session) Token(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, true
	}

	if s.password == "" {
		s.logger.Warn("admin credentials not configured, requests will be unauthenticated")
		return "", false
	}

	token, ok := s.login(ctx)
	if !ok {
		return "", false
	}
	s.token = token
	return token, true
}

// Invalidate clears the cached token unconditionally. Safe to call
// concurrently; the worst case is one extra login.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.logger.Info("cleared cached backend token")
}

// login performs POST /auth/login and extracts the token. Called with the
// session mutex held.
func (s *Session) login(ctx context.Context) (string, bool) {
	body, err := json.Marshal(loginRequest{Username: s.username, Password: s.password})
	if err != nil {
		s.logger.Error("marshal login request", "error", err)
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		s.logger.Error("create login request", "error", err)
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("backend login failed", "error", err)
		return "", false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("read login response", "error", err)
		return "", false
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("backend login rejected",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return "", false
	}

	var parsed loginResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		s.logger.Warn("parse login response", "error", err)
		return "", false
	}

	token := parsed.bearer()
	if token == "" {
		s.logger.Warn("login succeeded but no token field in response")
		return "", false
	}

	s.logger.Info("obtained backend token")
	return token, true
}
