package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/container"
	gormRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const generated = `Title: Lemon Pasta

Ingredients:
- 200g spaghetti
- 1 lemon

Steps:
1. Boil the pasta.
2. Stir in the lemon.
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "recipebox.yaml")
	body := "database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "recipebox.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseCommand(t *testing.T) {
	t.Run("File_ShouldPrintJSON", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "pasta.txt")
		require.NoError(t, os.WriteFile(path, []byte(generated), 0o600))

		// Act
		out, err := execute(t, "", "parse", path, "--json")

		// Assert
		require.NoError(t, err)
		var fields map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &fields))
		assert.Equal(t, "Lemon Pasta", fields["title"])
		assert.Contains(t, fields["ingredients"], "200g spaghetti")
		assert.Contains(t, fields["steps"], "Boil the pasta.")
	})

	t.Run("Stdin_ShouldPrintTable", func(t *testing.T) {
		out, err := execute(t, generated, "parse", "-")

		require.NoError(t, err)
		assert.Contains(t, out, "Lemon Pasta")
		assert.Contains(t, out, "Ingredients")
	})

	t.Run("MissingFile_ShouldFail", func(t *testing.T) {
		_, err := execute(t, "", "parse", filepath.Join(t.TempDir(), "nope.txt"))

		assert.Error(t, err)
	})
}

func TestSeedTagsCommand(t *testing.T) {
	t.Run("SecondRun_ShouldCreateNothing", func(t *testing.T) {
		// Arrange
		path := writeConfig(t)

		// Act
		first, err := execute(t, "", "seed-tags", "--config", path)
		require.NoError(t, err)
		second, err := execute(t, "", "seed-tags", "--config", path)
		require.NoError(t, err)

		// Assert
		assert.Contains(t, first, "Vegetarian")
		assert.Contains(t, first, "12 created, 12 total")
		assert.Contains(t, second, "0 created, 12 total")
	})
}

func TestMigrateCommand(t *testing.T) {
	t.Run("Sqlite_UpShouldCreateSchema", func(t *testing.T) {
		out, err := execute(t, "", "migrate", "up", "--config", writeConfig(t))

		require.NoError(t, err)
		assert.Contains(t, out, "Schema up to date")
	})

	t.Run("Sqlite_VersionShouldNeedPostgres", func(t *testing.T) {
		_, err := execute(t, "", "migrate", "version", "--config", writeConfig(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})
}

func TestShoppingCommand(t *testing.T) {
	path := writeConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	// Arrange a user with two recipes sharing an ingredient
	db, err := container.OpenDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	owner, err := user.NewUser("alex", "alex@example.com", "correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, gormRepo.NewUserRepository(db).Create(ctx, owner))

	svc := recipe.NewRecipeService(
		gormRepo.NewRecipeRepository(db),
		gormRepo.NewTagRepository(db),
		gormRepo.NewPreferenceRepository(db),
		memory.NewCacheRepository(0, memory.WithCleanupInterval(0)),
		container.NewEventDispatcher(nil, zap.NewNop()),
		zap.NewNop(),
	)
	pasta, err := svc.CreateRecipe(ctx, owner.ID(), inbound.CreateRecipeCommand{RecipeFields: inbound.RecipeFields{
		Title:       "Lemon Pasta",
		Ingredients: "200g spaghetti\n1 lemon",
		Steps:       "Boil.",
	}})
	require.NoError(t, err)
	salad, err := svc.CreateRecipe(ctx, owner.ID(), inbound.CreateRecipeCommand{RecipeFields: inbound.RecipeFields{
		Title:       "Lemon Salad",
		Ingredients: "1 lemon\nrocket",
		Steps:       "Toss.",
	}})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	t.Run("ShouldDeduplicateIngredients", func(t *testing.T) {
		// Act
		out, err := execute(t, "", "shopping", "--config", path, "--user", "alex", pasta.ID.String(), salad.ID.String())

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "Lemon Pasta, Lemon Salad")
		assert.Equal(t, 1, strings.Count(out, "1 lemon"))
		assert.Contains(t, out, "rocket")
	})

	t.Run("UnknownUser_ShouldFail", func(t *testing.T) {
		_, err := execute(t, "", "shopping", "--config", path, "--user", "sam", pasta.ID.String())

		assert.Error(t, err)
	})

	t.Run("InvalidID_ShouldFail", func(t *testing.T) {
		_, err := execute(t, "", "shopping", "--config", path, "--user", "alex", "not-a-uuid")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid recipe id")
	})

	t.Run("Recipes_ShouldListOwnedRecipes", func(t *testing.T) {
		out, err := execute(t, "", "recipes", "--config", path, "--user", "alex")

		require.NoError(t, err)
		assert.Contains(t, out, "Lemon Salad")
		assert.Contains(t, out, "Page 1 of 1, 2 recipes")
	})
}
