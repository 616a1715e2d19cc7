//go:build integration

package integration

import (
	"testing"

	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const seededTags = 12

// The subtests share one database and run in order.
func TestMigrator(t *testing.T) {
	testDB := testutils.SetupTestDatabase(t)

	withMigrator := func(t *testing.T, fn func(m *migrations.Migrator)) {
		t.Helper()
		db, err := migrations.Open(testDB.Config.DSN(testDB.Config.Host))
		require.NoError(t, err)
		m, err := migrations.New(db, testDB.Config.Database, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer m.Close()
		fn(m)
	}

	assertVersion := func(t *testing.T, m *migrations.Migrator, want uint) {
		t.Helper()
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, want, version)
		assert.False(t, dirty)
	}

	countTags := func(t *testing.T) int64 {
		t.Helper()
		var n int64
		require.NoError(t, testDB.GormDB.Raw("SELECT COUNT(*) FROM tags").Scan(&n).Error)
		return n
	}

	t.Run("Version_AfterSetup_ShouldBeHeadAndClean", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			assertVersion(t, m, 2)
		})
		assert.Equal(t, int64(seededTags), countTags(t))
	})

	t.Run("StepsDown_ShouldRemoveSeededTags", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			// Act
			require.NoError(t, m.Steps(-1))

			// Assert
			assertVersion(t, m, 1)
		})
		assert.Zero(t, countTags(t))
	})

	t.Run("StepsUp_ShouldReseedTags", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			require.NoError(t, m.Steps(1))
			assertVersion(t, m, 2)
		})
		assert.Equal(t, int64(seededTags), countTags(t))
	})

	t.Run("Force_ShouldRecordVersionWithoutRunningSQL", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			// Act
			require.NoError(t, m.Force(1))

			// Assert
			assertVersion(t, m, 1)
		})
		assert.Equal(t, int64(seededTags), countTags(t))

		withMigrator(t, func(m *migrations.Migrator) {
			require.NoError(t, m.Force(2))
			assertVersion(t, m, 2)
		})
	})

	t.Run("Up_AtHead_ShouldBeNoop", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			require.NoError(t, m.Up())
			assertVersion(t, m, 2)
		})
	})

	t.Run("DownThenUp_ShouldRoundTrip", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			require.NoError(t, m.Down())
			assertVersion(t, m, 1)

			require.NoError(t, m.Up())
			assertVersion(t, m, 2)
		})
	})

	t.Run("Reset_ShouldDropSchema", func(t *testing.T) {
		withMigrator(t, func(m *migrations.Migrator) {
			// Act
			require.NoError(t, m.Reset())

			// Assert
			assertVersion(t, m, 0)
		})

		var exists bool
		require.NoError(t, testDB.GormDB.Raw("SELECT to_regclass('public.users') IS NOT NULL").Scan(&exists).Error)
		assert.False(t, exists)

		withMigrator(t, func(m *migrations.Migrator) {
			require.NoError(t, m.Up())
			assertVersion(t, m, 2)
		})
	})
}
