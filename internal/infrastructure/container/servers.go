package container

import (
	"context"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/webserver"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// server is what both HTTP servers expose to the lifecycle
type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// WebModule provides and runs the HTML frontend
var WebModule = fx.Options(
	fx.Provide(
		handlers.NewRenderer,
		handlers.NewWebHandlers,
		webserver.NewWebServer,
	),
	fx.Invoke(func(lc fx.Lifecycle, s *webserver.WebServer, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
		runServer(lc, s, cfg, log, shutdowner)
	}),
)

// APIModule provides and runs the JSON API
var APIModule = fx.Options(
	fx.Provide(
		func(cfg *config.Config, log *zap.Logger, limiter *security.RateLimiter, auth *security.AuthService) *middleware.Middleware {
			return middleware.New(cfg, log, limiter, auth)
		},
		handlers.NewAPIHandlers,
		apiserver.NewOpenAPIHandler,
		apiserver.NewServer,
	),
	fx.Invoke(func(lc fx.Lifecycle, s *apiserver.Server, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
		runServer(lc, s, cfg, log, shutdowner)
	}),
)

// runServer starts s in the background and stops the app if it fails
func runServer(lc fx.Lifecycle, s server, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.Server.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer cancel()
			}
			return s.Shutdown(ctx)
		},
	})
}
