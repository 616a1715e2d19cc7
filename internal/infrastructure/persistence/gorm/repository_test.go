package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	repo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

// RepositoryTestSuite runs the GORM repositories against in-memory SQLite
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	ownerID uuid.UUID
	recipes *repo.RecipeRepository
	tags    *repo.TagRepository
	plans   *repo.MealPlanRepository
	prefs   *repo.PreferenceRepository
	users   *repo.UserRepository
	quick   tag.Tag
	vegan   tag.Tag
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	logger := zaptest.NewLogger(suite.T())

	db, err := sqlite.SetupDatabase(config.DatabaseConfig{LogLevel: "silent"}, logger)
	require.NoError(suite.T(), err)
	suite.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	suite.recipes = repo.NewRecipeRepository(db)
	suite.tags = repo.NewTagRepository(db)
	suite.plans = repo.NewMealPlanRepository(db)
	suite.prefs = repo.NewPreferenceRepository(db)
	suite.users = repo.NewUserRepository(db)

	_, err = sqlite.SeedTags(suite.ctx, suite.tags, logger)
	require.NoError(suite.T(), err)

	quick, err := suite.tags.FindByName(suite.ctx, "Quick")
	require.NoError(suite.T(), err)
	vegan, err := suite.tags.FindByName(suite.ctx, "Vegan")
	require.NoError(suite.T(), err)
	suite.quick, suite.vegan = *quick, *vegan

	suite.ownerID = uuid.New()
}

func (suite *RepositoryTestSuite) createRecipe(b *testutils.RecipeBuilder) *recipe.Recipe {
	r := b.MustBuild()
	require.NoError(suite.T(), suite.recipes.Create(suite.ctx, r))
	return r
}

func (suite *RepositoryTestSuite) ref(t tag.Tag) recipe.TagRef {
	return recipe.TagRef{ID: t.ID, Name: t.Name}
}

func (suite *RepositoryTestSuite) TestTags() {
	suite.Run("SeedTwice_ShouldNotDuplicate", func() {
		// Act
		created, err := sqlite.SeedTags(suite.ctx, suite.tags, zaptest.NewLogger(suite.T()))

		// Assert
		require.NoError(suite.T(), err)
		assert.Zero(suite.T(), created)
		all, err := suite.tags.List(suite.ctx)
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), all, len(tag.DefaultNames))
		assert.Equal(suite.T(), "Dairy-Free", all[0].Name)
	})

	suite.Run("UnknownName_ShouldBeNotFound", func() {
		_, err := suite.tags.FindByName(suite.ctx, "Breakfast Burrito")
		assert.ErrorIs(suite.T(), err, tag.ErrTagNotFound)
	})
}

func (suite *RepositoryTestSuite) TestRecipeRoundTrip() {
	suite.Run("Create_ShouldPersistFieldsAndTags", func() {
		suite.SetupTest()

		// Arrange
		r := suite.createRecipe(testutils.NewRecipeBuilder().
			WithOwner(suite.ownerID).
			WithTitle("Tomato Soup").
			WithTags(suite.ref(suite.quick), suite.ref(suite.vegan)).
			AsAIGenerated())

		// Act
		found, err := suite.recipes.FindByID(suite.ctx, r.ID())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Tomato Soup", found.Title())
		assert.Equal(suite.T(), r.Ingredients(), found.Ingredients())
		assert.True(suite.T(), found.IsAIGenerated())
		assert.Equal(suite.T(), []string{"Quick", "Vegan"}, tagNames(found))
	})

	suite.Run("Update_ShouldReplaceTags", func() {
		suite.SetupTest()

		// Arrange
		r := suite.createRecipe(testutils.NewRecipeBuilder().
			WithOwner(suite.ownerID).
			WithTags(suite.ref(suite.quick)))
		content := r.Content()
		content.Title = "Renamed"
		require.NoError(suite.T(), r.Update(content))
		r.SetTags([]recipe.TagRef{suite.ref(suite.vegan)})

		// Act
		err := suite.recipes.Update(suite.ctx, r)

		// Assert
		require.NoError(suite.T(), err)
		found, err := suite.recipes.FindForOwner(suite.ctx, suite.ownerID, r.ID())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Renamed", found.Title())
		assert.Equal(suite.T(), []string{"Vegan"}, tagNames(found))
	})

	suite.Run("ForeignOwner_ShouldBeNotFound", func() {
		suite.SetupTest()

		// Arrange
		r := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID))

		// Act
		_, err := suite.recipes.FindForOwner(suite.ctx, uuid.New(), r.ID())

		// Assert
		assert.ErrorIs(suite.T(), err, recipe.ErrRecipeNotFound)
	})

	suite.Run("Delete_ShouldRemoveDependents", func() {
		suite.SetupTest()

		// Arrange
		r := suite.createRecipe(testutils.NewRecipeBuilder().
			WithOwner(suite.ownerID).
			WithTags(suite.ref(suite.quick)))
		require.NoError(suite.T(), suite.recipes.SetFavourite(suite.ctx, r.ID(), suite.ownerID, true))
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, testutils.NewMealPlan(r, "2024-01-15", mealplan.Dinner)))
		require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(r, "Ann", preference.Like)))

		// Act
		err := suite.recipes.Delete(suite.ctx, r.ID())

		// Assert
		require.NoError(suite.T(), err)
		_, err = suite.recipes.FindByID(suite.ctx, r.ID())
		assert.ErrorIs(suite.T(), err, recipe.ErrRecipeNotFound)
		plans, err := suite.plans.ListForOwner(suite.ctx, suite.ownerID)
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), plans)
		members, err := suite.prefs.Members(suite.ctx, suite.ownerID)
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), members)
		assert.ErrorIs(suite.T(), suite.recipes.Delete(suite.ctx, r.ID()), recipe.ErrRecipeNotFound)
	})

	suite.Run("FindByIDsForOwner_ShouldKeepRequestOrder", func() {
		suite.SetupTest()

		// Arrange
		first := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID))
		second := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID))
		foreign := suite.createRecipe(testutils.NewRecipeBuilder())

		// Act
		found, err := suite.recipes.FindByIDsForOwner(suite.ctx, suite.ownerID,
			[]uuid.UUID{second.ID(), foreign.ID(), uuid.New(), first.ID()})

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), found, 2)
		assert.Equal(suite.T(), second.ID(), found[0].ID())
		assert.Equal(suite.T(), first.ID(), found[1].ID())
	})
}

func (suite *RepositoryTestSuite) TestSearch() {
	suite.SetupTest()

	soup := suite.createRecipe(testutils.NewRecipeBuilder().
		WithOwner(suite.ownerID).
		WithTitle("Tomato Soup").
		WithIngredients("4 tomatoes", "1 onion").
		WithTags(suite.ref(suite.quick)))
	pasta := suite.createRecipe(testutils.NewRecipeBuilder().
		WithOwner(suite.ownerID).
		WithTitle("Pasta Bake").
		WithIngredients("pasta", "Tomato sauce"))
	curry := suite.createRecipe(testutils.NewRecipeBuilder().
		WithOwner(suite.ownerID).
		WithTitle("Chickpea Curry").
		WithIngredients("chickpeas", "coconut milk").
		WithTags(suite.ref(suite.vegan)))
	suite.createRecipe(testutils.NewRecipeBuilder().WithTitle("Someone Else's Tomato Tart"))

	require.NoError(suite.T(), suite.recipes.SetFavourite(suite.ctx, curry.ID(), suite.ownerID, true))
	require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(pasta, "Ann", preference.Like)))
	require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(soup, "Ann", preference.Dislike)))

	quickID := suite.quick.ID

	tests := []struct {
		name     string
		criteria outbound.SearchCriteria
		want     []uuid.UUID
	}{
		{"All_ShouldListOwnRecipesOnly", outbound.SearchCriteria{}, []uuid.UUID{soup.ID(), pasta.ID(), curry.ID()}},
		{"Query_ShouldMatchTitleOrIngredientsIgnoringCase", outbound.SearchCriteria{Query: "TOMATO"}, []uuid.UUID{soup.ID(), pasta.ID()}},
		{"Tag_ShouldFilter", outbound.SearchCriteria{TagID: &quickID}, []uuid.UUID{soup.ID()}},
		{"Favourites_ShouldFilter", outbound.SearchCriteria{FavouritesOnly: true}, []uuid.UUID{curry.ID()}},
		{"Member_ShouldRequireLike", outbound.SearchCriteria{Member: "Ann"}, []uuid.UUID{pasta.ID()}},
		{"Member_ShouldIgnoreCase", outbound.SearchCriteria{Member: "ann"}, []uuid.UUID{pasta.ID()}},
		{"Combined_ShouldIntersect", outbound.SearchCriteria{Query: "tomato", Member: "Ann"}, []uuid.UUID{pasta.ID()}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			// Arrange
			criteria := tt.criteria
			criteria.OwnerID = suite.ownerID
			criteria.Limit = 10

			// Act
			found, total, err := suite.recipes.Search(suite.ctx, criteria)

			// Assert
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), int64(len(tt.want)), total)
			assert.ElementsMatch(suite.T(), tt.want, ids(found))
		})
	}

	suite.Run("Paging_ShouldLimitButCountAll", func() {
		found, total, err := suite.recipes.Search(suite.ctx, outbound.SearchCriteria{
			OwnerID: suite.ownerID,
			Offset:  2,
			Limit:   2,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(3), total)
		assert.Len(suite.T(), found, 1)
	})
}

func (suite *RepositoryTestSuite) TestFavourites() {
	suite.SetupTest()
	r := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID))

	suite.Run("SetTwice_ShouldBeIdempotent", func() {
		require.NoError(suite.T(), suite.recipes.SetFavourite(suite.ctx, r.ID(), suite.ownerID, true))
		require.NoError(suite.T(), suite.recipes.SetFavourite(suite.ctx, r.ID(), suite.ownerID, true))

		favourite, err := suite.recipes.IsFavourite(suite.ctx, r.ID(), suite.ownerID)
		require.NoError(suite.T(), err)
		assert.True(suite.T(), favourite)

		marks, err := suite.recipes.FavouriteIDs(suite.ctx, suite.ownerID, []uuid.UUID{r.ID(), uuid.New()})
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), map[uuid.UUID]bool{r.ID(): true}, marks)
	})

	suite.Run("Unset_ShouldClear", func() {
		require.NoError(suite.T(), suite.recipes.SetFavourite(suite.ctx, r.ID(), suite.ownerID, false))

		favourite, err := suite.recipes.IsFavourite(suite.ctx, r.ID(), suite.ownerID)
		require.NoError(suite.T(), err)
		assert.False(suite.T(), favourite)
	})
}

func (suite *RepositoryTestSuite) TestMealPlans() {
	suite.SetupTest()
	r := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID).WithTitle("Pasta"))
	monday := testutils.NewMealPlan(r, "2024-01-15", mealplan.Dinner)
	sunday := testutils.NewMealPlan(r, "2024-01-21", mealplan.Lunch)
	nextMonday := testutils.NewMealPlan(r, "2024-01-22", mealplan.Breakfast)
	for _, p := range []*mealplan.MealPlan{nextMonday, monday, sunday} {
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, p))
	}

	suite.Run("ListBetween_ShouldIncludeBothEnds", func() {
		from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)

		plans, err := suite.plans.ListBetween(suite.ctx, suite.ownerID, from, to)

		require.NoError(suite.T(), err)
		require.Len(suite.T(), plans, 2)
		assert.Equal(suite.T(), monday.ID(), plans[0].ID())
		assert.Equal(suite.T(), "Dinner on 2024-01-15: Pasta", plans[0].String())
		assert.Equal(suite.T(), sunday.ID(), plans[1].ID())
	})

	suite.Run("FindForOwner_ShouldScopeToOwner", func() {
		_, err := suite.plans.FindForOwner(suite.ctx, uuid.New(), monday.ID())
		assert.ErrorIs(suite.T(), err, mealplan.ErrMealPlanNotFound)

		found, err := suite.plans.FindForOwner(suite.ctx, suite.ownerID, monday.ID())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Pasta", found.RecipeTitle())
	})

	suite.Run("ListForOwner_ShouldOrderSlotsWithinDay", func() {
		dinner := testutils.NewMealPlan(r, "2024-01-23", mealplan.Dinner)
		breakfast := testutils.NewMealPlan(r, "2024-01-23", mealplan.Breakfast)
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, dinner))
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, breakfast))

		plans, err := suite.plans.ListForOwner(suite.ctx, suite.ownerID)

		require.NoError(suite.T(), err)
		require.Len(suite.T(), plans, 5)
		assert.Equal(suite.T(), breakfast.ID(), plans[3].ID())
		assert.Equal(suite.T(), dinner.ID(), plans[4].ID())
	})

	suite.Run("Delete_ShouldRemove", func() {
		require.NoError(suite.T(), suite.plans.Delete(suite.ctx, sunday.ID()))
		assert.ErrorIs(suite.T(), suite.plans.Delete(suite.ctx, sunday.ID()), mealplan.ErrMealPlanNotFound)
	})
}

func (suite *RepositoryTestSuite) TestPreferences() {
	suite.SetupTest()
	r := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID).WithTitle("Pasta"))

	suite.Run("Upsert_ShouldKeepOneRowPerMember", func() {
		// Arrange
		require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(r, "Bob", preference.Dislike)))
		require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(r, "Ann", preference.Neutral)))

		// Act
		err := suite.prefs.Upsert(suite.ctx, testutils.NewPreference(r, "Bob", preference.Like))

		// Assert
		require.NoError(suite.T(), err)
		prefs, err := suite.prefs.ListForRecipe(suite.ctx, suite.ownerID, r.ID())
		require.NoError(suite.T(), err)
		require.Len(suite.T(), prefs, 2)
		assert.Equal(suite.T(), "Ann - Pasta: Neutral", prefs[0].String())
		assert.Equal(suite.T(), "Bob - Pasta: Like", prefs[1].String())
	})

	suite.Run("Members_ShouldBeDistinctAndSorted", func() {
		other := suite.createRecipe(testutils.NewRecipeBuilder().WithOwner(suite.ownerID))
		require.NoError(suite.T(), suite.prefs.Upsert(suite.ctx, testutils.NewPreference(other, "Bob", preference.Like)))

		members, err := suite.prefs.Members(suite.ctx, suite.ownerID)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{"Ann", "Bob"}, members)
	})
}

func (suite *RepositoryTestSuite) TestUsers() {
	suite.SetupTest()
	u := testutils.NewUserBuilder().WithUsername("alice").MustBuild()
	require.NoError(suite.T(), suite.users.Create(suite.ctx, u))

	suite.Run("DuplicateUsername_ShouldBeTaken", func() {
		dup := testutils.NewUserBuilder().WithUsername("alice").MustBuild()
		assert.ErrorIs(suite.T(), suite.users.Create(suite.ctx, dup), user.ErrUsernameTaken)
	})

	suite.Run("FindByUsername_ShouldRestoreHash", func() {
		found, err := suite.users.FindByUsername(suite.ctx, "alice")
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), u.ID(), found.ID())
		assert.NoError(suite.T(), found.CheckPassword("testpass123"))
	})

	suite.Run("UpdateLastLogin_ShouldPersist", func() {
		at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
		require.NoError(suite.T(), suite.users.UpdateLastLogin(suite.ctx, u.ID(), at))

		found, err := suite.users.FindByID(suite.ctx, u.ID())
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), found.LastLoginAt())
		assert.True(suite.T(), at.Equal(*found.LastLoginAt()))
	})

	suite.Run("Exists_ShouldReport", func() {
		exists, err := suite.users.ExistsByUsername(suite.ctx, "alice")
		require.NoError(suite.T(), err)
		assert.True(suite.T(), exists)

		_, err = suite.users.FindByID(suite.ctx, uuid.New())
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)
	})
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func tagNames(r *recipe.Recipe) []string {
	names := make([]string, 0, len(r.Tags()))
	for _, t := range r.Tags() {
		names = append(names, t.Name)
	}
	return names
}

func ids(recipes []*recipe.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID()
	}
	return out
}
