// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the gin-based JSON API server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	engine  *gin.Engine
	server  *http.Server
	mw      *middleware.Middleware
	api     *handlers.APIHandlers
	health  *healthcheck.HealthCheck
	metrics *monitoring.MetricsCollector
	openAPI *OpenAPIHandler
}

// NewServer builds the engine and mounts every route
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mw *middleware.Middleware,
	api *handlers.APIHandlers,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
	openAPI *OpenAPIHandler,
) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		logger:  logger.Named("apiserver"),
		engine:  gin.New(),
		mw:      mw,
		api:     api,
		health:  health,
		metrics: metrics,
		openAPI: openAPI,
	}

	if err := s.engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.APIPort),
		Handler:        s.engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.Use(
		s.mw.RequestID(),
		s.mw.Recovery(),
		s.mw.Logger(),
		s.mw.Tracing(),
		s.mw.Security(),
		s.mw.CORS(),
		s.mw.RateLimit(),
		s.mw.Timeout(s.config.Server.RequestTimeout),
	)
	if s.metrics != nil {
		s.engine.Use(s.metrics.GinMiddleware())
	}

	healthPath := s.config.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	if s.health != nil {
		s.engine.GET(healthPath, s.health.Handler())
		s.engine.GET(healthPath+"/live", s.health.LivenessHandler())
		s.engine.GET(healthPath+"/ready", s.health.ReadinessHandler())
	}
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.engine.Group("/api/v1")
	if s.openAPI != nil {
		s.openAPI.Register(v1)
	}
	s.api.RegisterRoutes(v1, s.mw.Authenticate())

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.APIResponse{
			Error:   "NOT_FOUND",
			Message: "Route not found",
		})
	})
}

// Handler exposes the engine for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
