// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/postgres"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// TestDatabase is a migrated PostgreSQL instance running in a container
type TestDatabase struct {
	Container testcontainers.Container
	GormDB    *gorm.DB
	Config    config.DatabaseConfig
	t         *testing.T
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:16-alpine",
		Database: "recipebox_test",
		Username: "test_user",
		Password: "test_password",
	}
}

// SetupTestDatabase starts PostgreSQL, applies the migrations and connects
// through the production connection code. It is skipped in -short mode.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig creates a test database with custom configuration
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}

	ctx := context.Background()
	const port = nat.Port("5432/tcp")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(port, "pgx", func(host string, p nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						cfg.Username, cfg.Password, host, p.Port(), cfg.Database)
				}),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	td := &TestDatabase{Container: container, t: t}
	t.Cleanup(td.Cleanup)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	portNumber, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	td.Config = config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         portNumber,
		Database:     cfg.Database,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		LogLevel:     "silent",
	}

	require.NoError(t, td.migrate(), "Failed to run database migrations")

	td.GormDB, err = postgres.Connect(ctx, td.Config, zaptest.NewLogger(t))
	require.NoError(t, err, "Failed to connect to test database")

	return td
}

func (td *TestDatabase) migrate() error {
	sqlDB, err := migrations.Open(td.Config.DSN(td.Config.Host))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := migrations.New(sqlDB, td.Config.Database, zaptest.NewLogger(td.t))
	if err != nil {
		return err
	}
	return m.Up()
}

// TruncateAllTables removes user data. Seeded tags stay.
func (td *TestDatabase) TruncateAllTables() error {
	return td.GormDB.Exec(
		"TRUNCATE TABLE family_preferences, meal_plans, recipe_favourites, recipe_tags, recipes, users CASCADE",
	).Error
}

// Cleanup closes the connection and terminates the container
func (td *TestDatabase) Cleanup() {
	if td.GormDB != nil {
		if sqlDB, err := td.GormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if td.Container != nil {
		if err := td.Container.Terminate(context.Background()); err != nil {
			td.t.Logf("Failed to terminate test container: %v", err)
		}
	}
}
