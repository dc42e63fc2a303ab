// Package deepseek provides a client for the DeepSeek chat completions API.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mentor-hub/student-mentor/internal/domain/shared"
	"github.com/mentor-hub/student-mentor/pkg/circuitbreaker"
)

const (
	// DefaultAPIURL is the chat completions endpoint used when none is configured.
	DefaultAPIURL = "https://api.deepseek.com/v1/chat/completions"
	// DefaultModel is the chat model used for all completions.
	DefaultModel = "deepseek-chat"

	defaultTimeout = 15 * time.Second
)

// Config holds DeepSeek client configuration.
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		APIURL:  DefaultAPIURL,
		Model:   DefaultModel,
		Timeout: defaultTimeout,
	}
}

// Client calls the DeepSeek chat completions API. All calls go through a
// circuit breaker so that a dead provider degrades to instant failures
// instead of a timeout per request.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a new DeepSeek API client.
func NewClient(config Config) *Client {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "deepseek_client"))

	breaker := circuitbreaker.LLMProviderBreaker(func(name string, from, to circuitbreaker.State) {
		logger.Warn("circuit breaker state change",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// ChatCompletion sends a single-turn user prompt and returns the assistant
// reply with surrounding whitespace trimmed.
func (c *Client) ChatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", shared.NewDomainError("deepseek", "chat_completion", shared.ErrGeneration, "API key not configured")
	}

	var content string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		content, err = c.complete(ctx, prompt, temperature, maxTokens)
		return err
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	const op = "chat_completion"

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", shared.WrapError("deepseek", op, shared.ErrGeneration, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", shared.WrapError("deepseek", op, shared.ErrGeneration, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", shared.WrapError("deepseek", op, shared.ErrConnection, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", shared.WrapError("deepseek", op, shared.ErrConnection, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("non-200 response from provider",
			slog.Int("status", resp.StatusCode),
		)
		return "", shared.NewDomainError("deepseek", op, shared.ErrExternalService,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", shared.WrapError("deepseek", op, shared.ErrGeneration, "failed to parse response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", shared.NewDomainError("deepseek", op, shared.ErrGeneration, "response contains no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
