// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDatabase opens the SQLite database and migrates the schema. An empty
// path opens a private in-memory database.
func SetupDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = ":memory:"
	}
	dsn += "?_foreign_keys=on&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormModels.NewLogger(log, cfg.LogLevel, cfg.SlowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// One writer; in-memory databases also vanish once the last connection closes
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedTags creates any missing default tag. Running it again is a no-op.
func SeedTags(ctx context.Context, tags outbound.TagRepository, log *zap.Logger) (int, error) {
	created := 0
	for _, name := range tag.DefaultNames {
		_, err := tags.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, tag.ErrTagNotFound) {
			return created, fmt.Errorf("failed to look up tag %q: %w", name, err)
		}

		t, err := tag.New(name)
		if err != nil {
			return created, err
		}
		if err := tags.Create(ctx, t); err != nil {
			return created, fmt.Errorf("failed to create tag %q: %w", name, err)
		}
		created++
	}

	if created > 0 {
		log.Info("Seeded tags", zap.Int("created", created))
	}
	return created, nil
}
