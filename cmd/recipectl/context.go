package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/container"
	gormRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	log *zap.Logger
	db  *gorm.DB
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}

	level := "warn"
	if c.verboseFlag != nil && *c.verboseFlag {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		log = zap.NewNop()
	}
	c.log = log
	return log
}

// database opens the configured database once per invocation
func (c *commandContext) database() (*gorm.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if *c.verboseFlag {
		cfg.Database.LogLevel = "debug"
	}

	db, err := container.OpenDatabase(cfg, c.logger())
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// recipeService builds the recipe use cases over the configured database
func (c *commandContext) recipeService() (*recipe.RecipeService, error) {
	db, err := c.database()
	if err != nil {
		return nil, err
	}

	log := c.logger()
	return recipe.NewRecipeService(
		gormRepo.NewRecipeRepository(db),
		gormRepo.NewTagRepository(db),
		gormRepo.NewPreferenceRepository(db),
		memory.NewCacheRepository(0, memory.WithCleanupInterval(0)),
		container.NewEventDispatcher(nil, log),
		log,
	), nil
}

// userID resolves a username to its id
func (c *commandContext) userID(ctx context.Context, username string) (uuid.UUID, error) {
	if username == "" {
		return uuid.Nil, errors.NewBadRequestError("--user is required")
	}
	db, err := c.database()
	if err != nil {
		return uuid.Nil, err
	}

	var users outbound.UserRepository = gormRepo.NewUserRepository(db)
	u, err := users.FindByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %q: %w", username, err)
	}
	return u.ID(), nil
}

func (c *commandContext) close() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}
