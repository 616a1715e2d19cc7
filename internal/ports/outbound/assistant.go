package outbound

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache: key not found")

// CompletionRequest is a single-turn chat completion
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// AssistantClient is a text-generation provider. Implementations return the
// raw completion text; an empty response is not an error.
type AssistantClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}
