package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentor-hub/student-mentor/internal/domain/shared"
)

func newTestClient(url string) *Client {
	cfg := DefaultConfig("test-key")
	cfg.APIURL = url
	return NewClient(cfg)
}

func TestChatCompletionSendsExpectedRequest(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  12.5  "}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.ChatCompletion(context.Background(), "rate this", 0.3, 10)

	require.NoError(t, err)
	assert.Equal(t, "12.5", content, "reply should be trimmed")
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "rate this", got.Messages[0].Content)
	assert.Equal(t, 0.3, got.Temperature)
	assert.Equal(t, 10, got.MaxTokens)
}

func TestChatCompletionMissingKey(t *testing.T) {
	client := NewClient(Config{})
	assert.False(t, client.Configured())

	_, err := client.ChatCompletion(context.Background(), "hi", 0.7, 300)
	assert.ErrorIs(t, err, shared.ErrGeneration)
}

func TestChatCompletionNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ChatCompletion(context.Background(), "hi", 0.7, 300)
	assert.ErrorIs(t, err, shared.ErrExternalService)
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ChatCompletion(context.Background(), "hi", 0.7, 300)
	assert.ErrorIs(t, err, shared.ErrGeneration)
}

func TestChatCompletionCircuitOpensOnRepeatedFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := client.ChatCompletion(ctx, "hi", 0.7, 300)
		assert.Error(t, err)
	}

	// Breaker trips after three consecutive failures; later calls never
	// reach the server.
	assert.Equal(t, 3, calls)
}
