// Package anthropic implements the assistant client on the Anthropic
// messages API
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/ai"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const defaultMaxTokens = 1024

// Config configures the client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Retry   ai.RetryPolicy
}

// Client implements outbound.AssistantClient
type Client struct {
	client sdk.Client
	retry  ai.RetryPolicy
	logger *zap.Logger
}

var _ outbound.AssistantClient = (*Client)(nil)

// ErrAPIKeyRequired is returned when no key is configured
var ErrAPIKeyRequired = errors.New("anthropic api key required")

// NewClient creates a new Anthropic client. Retries are handled here, so the
// SDK's own retry loop is disabled.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client: sdk.NewClient(opts...),
		retry:  cfg.Retry,
		logger: logger.Named("anthropic"),
	}, nil
}

// Complete sends the prompt as a single user message and joins the text
// blocks of the reply
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(req.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: sdk.Float(req.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	var msg *sdk.Message
	err := ai.Do(ctx, c.retry, isRetryable, func() error {
		var callErr error
		msg, callErr = c.client.Messages.New(ctx, params)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages request failed: %w", err)
	}

	c.logger.Info("Message completed",
		zap.String("model", req.Model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// Provider returns "anthropic"
func (c *Client) Provider() string {
	return "anthropic"
}

func isRetryable(err error) bool {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return ai.Transient(apiErr.StatusCode)
	}
	return ai.IsRetryable(err)
}
