package container

import (
	"sync"

	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// EventDispatcher publishes domain events in process. Every event is logged
// and counted, then handed to the handlers subscribed to its name.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	metrics  *monitoring.MetricsCollector
	log      *zap.Logger
}

var _ shared.EventPublisher = (*EventDispatcher)(nil)

// NewEventDispatcher creates a new event dispatcher. metrics may be nil.
func NewEventDispatcher(metrics *monitoring.MetricsCollector, log *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]shared.EventHandler),
		metrics:  metrics,
		log:      log.Named("events"),
	}
}

// Subscribe registers handler for events named name
func (d *EventDispatcher) Subscribe(name string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// Publish dispatches events synchronously. Handler errors are logged and do
// not stop the remaining handlers.
func (d *EventDispatcher) Publish(events ...shared.DomainEvent) {
	for _, event := range events {
		name := event.EventName()
		d.log.Info("Domain event",
			zap.String("event", name),
			zap.Time("occurred_at", event.OccurredAt()),
		)
		if d.metrics != nil {
			d.metrics.EventPublished(name)
		}

		d.mu.RLock()
		handlers := d.handlers[name]
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				d.log.Error("Event handler failed", zap.String("event", name), zap.Error(err))
			}
		}
	}
}
