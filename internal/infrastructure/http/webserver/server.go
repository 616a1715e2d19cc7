// Package webserver provides the server-rendered web frontend
package webserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const compressionLevel = 5

// WebServer serves the HTML frontend
type WebServer struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	web     *handlers.WebHandlers
	auth    *security.AuthService
	limiter *security.RateLimiter
	health  *healthcheck.HealthCheck
	metrics *monitoring.MetricsCollector
}

// NewWebServer builds the router and the underlying http.Server
func NewWebServer(
	cfg *config.Config,
	logger *zap.Logger,
	web *handlers.WebHandlers,
	auth *security.AuthService,
	limiter *security.RateLimiter,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *WebServer {
	s := &WebServer{
		config:  cfg,
		logger:  logger.Named("webserver"),
		web:     web,
		auth:    auth,
		limiter: limiter,
		health:  health,
		metrics: metrics,
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(handler, "recipebox-web")
	}
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	healthPath := s.config.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, healthPath))
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	if s.config.Server.EnableCompression {
		r.Use(newCompressor().Handler)
	}
	r.Use(middleware.Security(s.config.IsProduction()))
	if s.config.RateLimit.Enable && s.limiter != nil {
		r.Use(middleware.RateLimit(s.limiter))
	}
	r.Use(middleware.Authenticate(s.auth, s.logger))
	r.Use(middleware.CSRF(s.auth))

	if s.health != nil {
		r.Get(healthPath, s.health.HTTPHandler())
	}
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.NotFound(s.web.NotFound)
	s.web.Routes(r)

	return r
}

// newCompressor prefers brotli and falls back to chi's gzip and deflate
func newCompressor() *chimiddleware.Compressor {
	c := chimiddleware.NewCompressor(compressionLevel, "text/html", "text/css", "application/json")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Handler exposes the router for tests
func (s *WebServer) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *WebServer) Start() error {
	s.logger.Info("Starting web server",
		zap.String("address", s.server.Addr),
		zap.Bool("h2c", s.config.Server.EnableH2C),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server")
	return s.server.Shutdown(ctx)
}
