// Package container wires the application together with Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/alchemorsel/recipebox/internal/application/assistant"
	"github.com/alchemorsel/recipebox/internal/application/mealplan"
	"github.com/alchemorsel/recipebox/internal/application/preference"
	"github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/application/user"
	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/alchemorsel/recipebox/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides everything both servers share. configPath may be empty to
// search the default locations.
func Module(configPath string) fx.Option {
	return fx.Options(
		ConfigModule(configPath),
		LoggerModule,
		MonitoringModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		AssistantModule,
		ServiceModule,
		SecurityModule,
		fx.Invoke(func(*monitoring.TracingProvider) {}),
		fx.Invoke(RegisterLifecycleHooks),
	)
}

// ConfigModule provides configuration and the loader that can watch it
func ConfigModule(configPath string) fx.Option {
	return fx.Provide(func() (*config.Config, *config.Loader, error) {
		return config.NewLoader(configPath)
	})
}

// LoggerModule provides logging. The atomic level lets a config reload
// change verbosity without a restart.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log.Named("health"))
	},
)

// DatabaseModule provides the gorm connection for the configured driver
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector, health *healthcheck.HealthCheck) (*gorm.DB, error) {
		db, err := OpenDatabase(cfg, log)
		if err != nil {
			return nil, err
		}

		if err := gormRepo.RegisterQueryObserver(db, metrics); err != nil {
			return nil, fmt.Errorf("failed to register query metrics: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return sqlDB.Close()
			},
		})

		log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		return db, nil
	},
)

// OpenDatabase connects with the configured driver. Postgres schemas come from
// the SQL migrations and sqlite schemas from gorm AutoMigrate.
func OpenDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := runMigrations(cfg, log); err != nil {
				return nil, err
			}
		}
		return postgres.Connect(context.Background(), cfg.Database, log)
	case "sqlite", "":
		return sqlite.SetupDatabase(cfg.Database, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// runMigrations applies the embedded SQL migrations to the primary
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := migrations.Open(cfg.GetDSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := migrations.New(sqlDB, cfg.Database.Database, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// CacheModule provides the cache backend
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck) (outbound.CacheRepository, error) {
		if cfg.Cache.Driver == "redis" {
			client, err := redisRepo.NewClient(context.Background(), cfg.Redis)
			if err != nil {
				return nil, err
			}
			health.Register("redis", healthcheck.NewRedisChecker(client))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return client.Close()
				},
			})
			log.Info("Using redis cache", zap.String("addr", client.Options().Addr))
			return redisRepo.NewCacheRepository(client, "recipebox:", log), nil
		}

		cache := memory.NewCacheRepository(cfg.Cache.Size, memory.WithCleanupInterval(cfg.Cache.CleanupInterval))
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				cache.Close()
				return nil
			},
		})
		log.Info("Using in-memory cache", zap.Int("size", cfg.Cache.Size))
		return cache, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(gormRepo.NewRecipeRepository, fx.As(new(outbound.RecipeRepository))),
	fx.Annotate(gormRepo.NewTagRepository, fx.As(new(outbound.TagRepository))),
	fx.Annotate(gormRepo.NewMealPlanRepository, fx.As(new(outbound.MealPlanRepository))),
	fx.Annotate(gormRepo.NewPreferenceRepository, fx.As(new(outbound.PreferenceRepository))),
	fx.Annotate(gormRepo.NewUserRepository, fx.As(new(outbound.UserRepository))),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(NewEventDispatcher, fx.As(new(shared.EventPublisher))),
	recipe.NewRecipeService,
	func(s *recipe.RecipeService) inbound.RecipeService { return s },
	fx.Annotate(mealplan.NewMealPlanService, fx.As(new(inbound.MealPlanService))),
	fx.Annotate(preference.NewPreferenceService, fx.As(new(inbound.PreferenceService))),
	func(users outbound.UserRepository, recipes *recipe.RecipeService, events shared.EventPublisher, cfg *config.Config, log *zap.Logger) inbound.UserService {
		return user.NewUserService(users, recipes, events, cfg.Auth.BCryptCost, log)
	},
	func(client outbound.AssistantClient, cache outbound.CacheRepository, cfg *config.Config, log *zap.Logger) inbound.AssistantService {
		return assistant.NewAssistantService(client, cache, assistant.Config{
			Model:     cfg.AI.Model(),
			MaxTokens: cfg.AI.MaxTokens,
		}, log)
	},
)

// SecurityModule provides authentication and rate limiting
var SecurityModule = fx.Provide(
	func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) *security.AuthService {
		return security.NewAuthService(cfg.Auth, cache, log)
	},
	func(lc fx.Lifecycle, cfg *config.Config) *security.RateLimiter {
		limiter := security.NewRateLimiter(cfg.RateLimit)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				limiter.Close()
				return nil
			},
		})
		return limiter
	},
)

// RegisterLifecycleHooks seeds reference data on start, starts the config
// watcher and flushes logs on stop
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	loader *config.Loader,
	log *zap.Logger,
	level zap.AtomicLevel,
	tags outbound.TagRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Recipebox",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if _, err := sqlite.SeedTags(ctx, tags, log); err != nil {
				return fmt.Errorf("failed to seed tags: %w", err)
			}

			if cfg.App.WatchConfig && loader.ConfigFile() != "" {
				loader.Watch(func(next *config.Config) {
					level.SetLevel(logger.ParseLevel(next.App.LogLevel))
					log.Info("Configuration reloaded", zap.String("log_level", next.App.LogLevel))
				}, func(err error) {
					log.Warn("Ignoring invalid configuration change", zap.Error(err))
				})
				log.Info("Watching configuration", zap.String("file", loader.ConfigFile()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Recipebox")
			_ = log.Sync()
			return nil
		},
	})
}
