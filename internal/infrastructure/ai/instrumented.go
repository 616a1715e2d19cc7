package ai

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"go.uber.org/zap"
)

// CallObserver records one completion call
type CallObserver interface {
	ObserveAssistantCall(provider string, duration time.Duration, err error)
}

// InstrumentedClient wraps an AssistantClient with logging and metrics
type InstrumentedClient struct {
	next     outbound.AssistantClient
	observer CallObserver
	logger   *zap.Logger
}

var _ outbound.AssistantClient = (*InstrumentedClient)(nil)

// NewInstrumentedClient decorates next. observer may be nil.
func NewInstrumentedClient(next outbound.AssistantClient, observer CallObserver, logger *zap.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		next:     next,
		observer: observer,
		logger:   logger.Named("assistant-client"),
	}
}

// Complete forwards the request and records its outcome
func (c *InstrumentedClient) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, req)
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveAssistantCall(c.next.Provider(), elapsed, err)
	}

	fields := []zap.Field{
		zap.String("provider", c.next.Provider()),
		zap.String("model", req.Model),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		c.logger.Warn("Completion failed", append(fields, zap.Error(err))...)
		return "", err
	}

	c.logger.Debug("Completion finished", append(fields, zap.Int("length", len(text)))...)
	return text, nil
}

// Provider returns the wrapped provider's name
func (c *InstrumentedClient) Provider() string {
	return c.next.Provider()
}
