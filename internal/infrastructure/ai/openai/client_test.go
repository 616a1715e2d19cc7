package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/ai"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: url,
		Timeout: 5 * time.Second,
		Retry:   ai.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxElapsedTime: time.Second},
	}, zap.NewNop())
}

func TestClient_Complete(t *testing.T) {
	request := outbound.CompletionRequest{
		System:      "You're a helpful chef assistant.",
		Prompt:      "Create a recipe",
		Model:       "gpt-4",
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	t.Run("Success_ShouldSendChatRequest", func(t *testing.T) {
		// Arrange
		var got chatCompletionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Title: Soup"}}],"usage":{"total_tokens":12}}`))
		}))
		defer server.Close()

		// Act
		text, err := newTestClient(server.URL).Complete(context.Background(), request)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Title: Soup", text)
		assert.Equal(t, "gpt-4", got.Model)
		assert.Equal(t, 0.7, got.Temperature)
		assert.Equal(t, 1024, got.MaxTokens)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, message{Role: "system", Content: request.System}, got.Messages[0])
		assert.Equal(t, message{Role: "user", Content: request.Prompt}, got.Messages[1])
	})

	t.Run("NoChoices_ShouldReturnEmpty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).Complete(context.Background(), request)

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("ServerError_ShouldRetryThenSucceed", func(t *testing.T) {
		// Arrange
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer server.Close()

		// Act
		text, err := newTestClient(server.URL).Complete(context.Background(), request)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("Unauthorized_ShouldFailWithoutRetry", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Complete(context.Background(), request)

		var statusErr *ai.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestNewClient_OllamaDefaults(t *testing.T) {
	client := NewClient(Config{Provider: "ollama"}, zap.NewNop())

	assert.Equal(t, OllamaBaseURL, client.baseURL)
	assert.Equal(t, "ollama", client.apiKey)
	assert.Equal(t, "ollama", client.Provider())
}
