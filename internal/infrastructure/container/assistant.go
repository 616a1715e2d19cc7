package container

import (
	"errors"
	"fmt"

	"github.com/alchemorsel/recipebox/internal/infrastructure/ai"
	"github.com/alchemorsel/recipebox/internal/infrastructure/ai/anthropic"
	"github.com/alchemorsel/recipebox/internal/infrastructure/ai/mock"
	"github.com/alchemorsel/recipebox/internal/infrastructure/ai/openai"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AssistantModule provides the assistant provider client
var AssistantModule = fx.Provide(NewAssistantClient)

// NewAssistantClient builds the client for cfg.AI.Provider wrapped with
// metrics. It returns a nil client when the provider has no credentials, so
// assistant calls report AI_UNAVAILABLE instead of failing at startup.
func NewAssistantClient(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (outbound.AssistantClient, error) {
	client, err := newProviderClient(cfg.AI, log)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Warn("Recipe assistant is not configured", zap.String("provider", cfg.AI.Provider))
		return nil, nil
	}

	log.Info("Recipe assistant configured",
		zap.String("provider", client.Provider()),
		zap.String("model", cfg.AI.Model()),
	)
	return ai.NewInstrumentedClient(client, metrics, log), nil
}

func newProviderClient(cfg config.AIConfig, log *zap.Logger) (outbound.AssistantClient, error) {
	retry := ai.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "mock":
		return mock.NewClient(), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, nil
		}
		return openai.NewClient(openai.Config{
			Provider: "openai",
			APIKey:   cfg.OpenAIKey,
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Retry:    retry,
		}, log), nil
	case "ollama":
		return openai.NewClient(openai.Config{
			Provider: "ollama",
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Retry:    retry,
		}, log), nil
	case "anthropic":
		client, err := anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.AnthropicKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Retry:   retry,
		}, log)
		if errors.Is(err, anthropic.ErrAPIKeyRequired) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}
