// Package openai talks to OpenAI-compatible chat completion endpoints,
// including a local Ollama server
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/ai"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	OllamaBaseURL  = "http://localhost:11434/v1"

	maxErrorBody = 512
)

// Config configures the client
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Retry    ai.RetryPolicy
}

// Client implements outbound.AssistantClient over the chat completions API
type Client struct {
	provider string
	apiKey   string
	baseURL  string
	client   *http.Client
	retry    ai.RetryPolicy
	logger   *zap.Logger
}

var _ outbound.AssistantClient = (*Client)(nil)

// NewClient creates a new chat completions client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
		if cfg.Provider == "ollama" {
			cfg.BaseURL = OllamaBaseURL
		}
	}
	if cfg.APIKey == "" && cfg.Provider == "ollama" {
		cfg.APIKey = "ollama"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		provider: cfg.Provider,
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		retry:    cfg.Retry,
		logger:   logger.Named(cfg.Provider),
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete sends one system and one user message and returns the first
// choice's content. No choices yields an empty string.
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model: req.Model,
		Messages: []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp chatCompletionResponse
	attempt := 0
	err = ai.Do(ctx, c.retry, ai.IsRetryable, func() error {
		attempt++
		var callErr error
		resp, callErr = c.call(ctx, body)
		if callErr != nil && ai.IsRetryable(callErr) {
			c.logger.Warn("Chat completion attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(callErr),
			)
		}
		return callErr
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("Chat completion succeeded",
		zap.String("model", req.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) call(ctx context.Context, body []byte) (chatCompletionResponse, error) {
	var out chatCompletionResponse

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return out, &ai.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// Provider returns the configured provider name
func (c *Client) Provider() string {
	return c.provider
}
