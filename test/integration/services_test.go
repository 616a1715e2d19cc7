//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/application/mealplan"
	"github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/application/user"
	"github.com/alchemorsel/recipebox/internal/infrastructure/container"
	repo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// HouseholdFlowSuite drives the application services end to end on PostgreSQL
type HouseholdFlowSuite struct {
	suite.Suite
	ctx     context.Context
	testDB  *testutils.TestDatabase
	users   *user.UserService
	recipes *recipe.RecipeService
	plans   *mealplan.MealPlanService
}

func (suite *HouseholdFlowSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.testDB = testutils.SetupTestDatabase(suite.T())
	log := zaptest.NewLogger(suite.T())

	db := suite.testDB.GormDB
	recipeRepo := repo.NewRecipeRepository(db)
	cache := memory.NewCacheRepository(100)
	suite.T().Cleanup(cache.Close)
	events := container.NewEventDispatcher(nil, log)

	suite.recipes = recipe.NewRecipeService(recipeRepo, repo.NewTagRepository(db), repo.NewPreferenceRepository(db), cache, events, log)
	suite.users = user.NewUserService(repo.NewUserRepository(db), suite.recipes, events, bcrypt.MinCost, log)
	suite.plans = mealplan.NewMealPlanService(repo.NewMealPlanRepository(db), recipeRepo, log).
		WithClock(func() time.Time { return time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC) })
}

func (suite *HouseholdFlowSuite) SetupTest() {
	require.NoError(suite.T(), suite.testDB.TruncateAllTables())
}

func (suite *HouseholdFlowSuite) register(name string) uuid.UUID {
	dto, err := suite.users.Register(suite.ctx, inbound.RegisterCommand{
		Username:        name,
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	require.NoError(suite.T(), err)
	return dto.ID
}

func (suite *HouseholdFlowSuite) TestRegistration() {
	suite.Run("NewUser_ShouldGetStarterRecipes", func() {
		// Act
		userID := suite.register("jordan")

		// Assert
		list, err := suite.recipes.ListRecipes(suite.ctx, userID, inbound.RecipeFilter{Page: 1})
		require.NoError(suite.T(), err)
		assert.EqualValues(suite.T(), 2, list.Total)
	})

	suite.Run("Login_ShouldAcceptRegisteredPassword", func() {
		suite.register("casey")

		dto, err := suite.users.Authenticate(suite.ctx, inbound.LoginCommand{Username: "casey", Password: "s3cret-pass"})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "casey", dto.Username)
	})
}

func (suite *HouseholdFlowSuite) TestShoppingList() {
	suite.Run("StarterRecipes_ShouldShareSaltAndPepper", func() {
		// Arrange
		userID := suite.register("morgan")
		list, err := suite.recipes.ListRecipes(suite.ctx, userID, inbound.RecipeFilter{Page: 1})
		require.NoError(suite.T(), err)
		ids := make([]uuid.UUID, 0, len(list.Items))
		for _, r := range list.Items {
			ids = append(ids, r.ID)
		}

		// Act
		shopping, err := suite.recipes.ShoppingList(suite.ctx, userID, ids)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{
			"2 eggs", "Butter", "Cucumber", "Lemon juice", "Lettuce", "Olive oil", "Pepper", "Salt", "Tomato",
		}, shopping.Items)
	})

	suite.Run("ForeignRecipes_ShouldBeIgnored", func() {
		owner := suite.register("riley")
		other := suite.register("quinn")
		theirs, err := suite.recipes.ListRecipes(suite.ctx, other, inbound.RecipeFilter{Page: 1})
		require.NoError(suite.T(), err)

		shopping, err := suite.recipes.ShoppingList(suite.ctx, owner, []uuid.UUID{theirs.Items[0].ID})

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), shopping.Items)
	})
}

func (suite *HouseholdFlowSuite) TestMealPlan() {
	suite.Run("PlannedDinner_ShouldAppearInWeek", func() {
		// Arrange
		userID := suite.register("avery")
		list, err := suite.recipes.ListRecipes(suite.ctx, userID, inbound.RecipeFilter{Page: 1})
		require.NoError(suite.T(), err)

		// Act
		_, err = suite.plans.CreateMealPlan(suite.ctx, userID, inbound.CreateMealPlanCommand{
			Date:     "2025-06-05",
			MealType: "dinner",
			RecipeID: list.Items[0].ID,
		})
		require.NoError(suite.T(), err)

		// Assert
		week, err := suite.plans.WeekView(suite.ctx, userID, 0)
		require.NoError(suite.T(), err)
		require.Len(suite.T(), week.Days, 7)
		thursday := week.Days[3]
		require.NotNil(suite.T(), thursday.Dinner)
		assert.Equal(suite.T(), list.Items[0].Title, thursday.Dinner.RecipeTitle)
		assert.Nil(suite.T(), thursday.Lunch)
	})
}

func TestHouseholdFlowSuite(t *testing.T) {
	suite.Run(t, new(HouseholdFlowSuite))
}
