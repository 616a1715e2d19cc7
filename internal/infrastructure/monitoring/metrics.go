// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection. Each collector owns
// its registry.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Assistant metrics
	assistantRequestsTotal   *prometheus.CounterVec
	assistantRequestDuration *prometheus.HistogramVec

	// Database metrics
	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	// Domain metrics
	domainEventsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"server", "method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"server", "method", "route"},
		),

		assistantRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_requests_total",
				Help: "Total number of assistant completion requests",
			},
			[]string{"provider", "status"},
		),
		assistantRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_request_duration_seconds",
				Help:    "Assistant completion duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider"},
		),

		dbQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation"},
		),
		dbQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Total number of failed database statements",
			},
			[]string{"operation"},
		),

		domainEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domain_events_total",
				Help: "Total number of published domain events",
			},
			[]string{"event"},
		),
	}
}

// Registry returns the collector's registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request
func (m *MetricsCollector) ObserveHTTP(server, method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(server, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(server, method, route).Observe(duration.Seconds())
}

// ObserveAssistantCall records one completion call
func (m *MetricsCollector) ObserveAssistantCall(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.assistantRequestsTotal.WithLabelValues(provider, status).Inc()
	m.assistantRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveQuery records one database statement
func (m *MetricsCollector) ObserveQuery(operation string, duration time.Duration, failed bool) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if failed {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// EventPublished counts a domain event
func (m *MetricsCollector) EventPublished(name string) {
	m.domainEventsTotal.WithLabelValues(name).Inc()
}

// HTTPMiddleware records request metrics for chi routers, labelled by route
// pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveHTTP("web", r.Method, route, status, time.Since(start))
	})
}

// GinMiddleware records request metrics for gin engines
func (m *MetricsCollector) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		m.ObserveHTTP("api", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
