package recipe

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type RecipeServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	userID  uuid.UUID
	recipes *testutils.MockRecipeRepository
	tags    *testutils.MockTagRepository
	prefs   *testutils.MockPreferenceRepository
	cache   *testutils.MockCacheRepository
	events  *testutils.RecordingPublisher
	service *RecipeService
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.userID = uuid.New()
	suite.recipes = &testutils.MockRecipeRepository{}
	suite.tags = &testutils.MockTagRepository{}
	suite.prefs = &testutils.MockPreferenceRepository{}
	suite.cache = &testutils.MockCacheRepository{}
	suite.events = &testutils.RecordingPublisher{}
	suite.service = NewRecipeService(
		suite.recipes, suite.tags, suite.prefs, suite.cache, suite.events,
		zaptest.NewLogger(suite.T()),
	)
}

func (suite *RecipeServiceTestSuite) TearDownTest() {
	suite.recipes.AssertExpectations(suite.T())
	suite.tags.AssertExpectations(suite.T())
	suite.prefs.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func validFields() inbound.RecipeFields {
	return inbound.RecipeFields{
		Title:       "Pasta",
		Ingredients: "Pasta\nTomatoes",
		Steps:       "Boil. Mix.",
	}
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe() {
	suite.Run("ValidCommand_ShouldPersistWithTags", func() {
		suite.SetupTest()

		// Arrange
		vegan := tag.Tag{ID: uuid.New(), Name: "Vegan"}
		fields := validFields()
		fields.TagIDs = []uuid.UUID{vegan.ID, vegan.ID}
		suite.tags.On("FindByIDs", suite.ctx, []uuid.UUID{vegan.ID}).Return([]tag.Tag{vegan}, nil)
		suite.recipes.On("Create", suite.ctx, mock.MatchedBy(func(r *recipe.Recipe) bool {
			return r.OwnerID() == suite.userID && r.HasTag(vegan.ID) && r.IsAIGenerated()
		})).Return(nil)

		// Act
		dto, err := suite.service.CreateRecipe(suite.ctx, suite.userID, inbound.CreateRecipeCommand{
			RecipeFields:  fields,
			IsAIGenerated: true,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Pasta", dto.Title)
		assert.Equal(suite.T(), []inbound.TagDTO{{ID: vegan.ID, Name: "Vegan"}}, dto.Tags)
		assert.Equal(suite.T(), []string{"recipe.created"}, suite.events.Names())
	})

	suite.Run("MissingFields_ShouldReturnFieldErrors", func() {
		suite.SetupTest()

		// Act
		_, err := suite.service.CreateRecipe(suite.ctx, suite.userID, inbound.CreateRecipeCommand{
			RecipeFields: inbound.RecipeFields{Title: "Pasta"},
		})

		// Assert
		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
		var appErr *errors.AppError
		require.ErrorAs(suite.T(), err, &appErr)
		assert.Contains(suite.T(), appErr.Fields, "ingredients")
		assert.Contains(suite.T(), appErr.Fields, "steps")
		suite.recipes.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	})

	suite.Run("BlankTitle_ShouldFailOnTitle", func() {
		suite.SetupTest()

		// Arrange
		fields := validFields()
		fields.Title = "   "

		// Act
		_, err := suite.service.CreateRecipe(suite.ctx, suite.userID, inbound.CreateRecipeCommand{RecipeFields: fields})

		// Assert
		var appErr *errors.AppError
		require.ErrorAs(suite.T(), err, &appErr)
		assert.Equal(suite.T(), errors.CodeValidationFailed, appErr.Code)
		assert.Contains(suite.T(), appErr.Fields, "title")
	})

	suite.Run("UnknownTag_ShouldFail", func() {
		suite.SetupTest()

		// Arrange
		fields := validFields()
		fields.TagIDs = []uuid.UUID{uuid.New()}
		suite.tags.On("FindByIDs", suite.ctx, fields.TagIDs).Return([]tag.Tag{}, nil)

		// Act
		_, err := suite.service.CreateRecipe(suite.ctx, suite.userID, inbound.CreateRecipeCommand{RecipeFields: fields})

		// Assert
		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func (suite *RecipeServiceTestSuite) TestUpdateRecipe() {
	suite.Run("OwnedRecipe_ShouldUpdateAndInvalidateCache", func() {
		suite.SetupTest()

		// Arrange
		existing := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
		fields := validFields()
		fields.Title = "Better Pasta"
		suite.recipes.On("FindForOwner", suite.ctx, suite.userID, existing.ID()).Return(existing, nil)
		suite.recipes.On("Update", suite.ctx, existing).Return(nil)
		suite.recipes.On("IsFavourite", suite.ctx, existing.ID(), suite.userID).Return(true, nil)
		suite.cache.On("Delete", suite.ctx, "recipe:"+existing.ID().String()).Return(nil)

		// Act
		dto, err := suite.service.UpdateRecipe(suite.ctx, suite.userID, existing.ID(), inbound.UpdateRecipeCommand{RecipeFields: fields})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Better Pasta", dto.Title)
		assert.True(suite.T(), dto.IsFavourite)
		assert.Empty(suite.T(), dto.Tags)
		assert.Equal(suite.T(), []string{"recipe.updated"}, suite.events.Names())
	})

	suite.Run("ForeignRecipe_ShouldBeNotFound", func() {
		suite.SetupTest()

		// Arrange
		id := uuid.New()
		suite.recipes.On("FindForOwner", suite.ctx, suite.userID, id).Return(nil, recipe.ErrRecipeNotFound)

		// Act
		_, err := suite.service.UpdateRecipe(suite.ctx, suite.userID, id, inbound.UpdateRecipeCommand{RecipeFields: validFields()})

		// Assert
		assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
	})
}

func (suite *RecipeServiceTestSuite) TestDeleteRecipe() {
	// Arrange
	existing := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
	suite.recipes.On("FindForOwner", suite.ctx, suite.userID, existing.ID()).Return(existing, nil)
	suite.recipes.On("Delete", suite.ctx, existing.ID()).Return(nil)
	suite.cache.On("Delete", suite.ctx, "recipe:"+existing.ID().String()).Return(nil)

	// Act
	err := suite.service.DeleteRecipe(suite.ctx, suite.userID, existing.ID())

	// Assert
	require.NoError(suite.T(), err)
}

func (suite *RecipeServiceTestSuite) TestToggleFavourite() {
	suite.Run("NotFavourite_ShouldAdd", func() {
		suite.SetupTest()

		// Arrange
		existing := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
		suite.recipes.On("FindForOwner", suite.ctx, suite.userID, existing.ID()).Return(existing, nil)
		suite.recipes.On("IsFavourite", suite.ctx, existing.ID(), suite.userID).Return(false, nil)
		suite.recipes.On("SetFavourite", suite.ctx, existing.ID(), suite.userID, true).Return(nil)

		// Act
		favourite, err := suite.service.ToggleFavourite(suite.ctx, suite.userID, existing.ID())

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), favourite)
		assert.Equal(suite.T(), []string{"recipe.favourited"}, suite.events.Names())
	})

	suite.Run("Favourite_ShouldRemove", func() {
		suite.SetupTest()

		// Arrange
		existing := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
		suite.recipes.On("FindForOwner", suite.ctx, suite.userID, existing.ID()).Return(existing, nil)
		suite.recipes.On("IsFavourite", suite.ctx, existing.ID(), suite.userID).Return(true, nil)
		suite.recipes.On("SetFavourite", suite.ctx, existing.ID(), suite.userID, false).Return(nil)

		// Act
		favourite, err := suite.service.ToggleFavourite(suite.ctx, suite.userID, existing.ID())

		// Assert
		require.NoError(suite.T(), err)
		assert.False(suite.T(), favourite)
		assert.Equal(suite.T(), []string{"recipe.unfavourited"}, suite.events.Names())
	})
}

func (suite *RecipeServiceTestSuite) TestGetRecipe() {
	suite.Run("CacheMiss_ShouldLoadAndPopulateCache", func() {
		suite.SetupTest()

		// Arrange
		existing := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
		key := "recipe:" + existing.ID().String()
		pref := testutils.NewPreference(existing, "Bob", preference.Like)
		suite.cache.On("Get", suite.ctx, key).Return(nil, outbound.ErrCacheMiss)
		suite.cache.On("Set", suite.ctx, key, mock.Anything, time.Hour).Return(nil)
		suite.recipes.On("FindForOwner", suite.ctx, suite.userID, existing.ID()).Return(existing, nil)
		suite.recipes.On("IsFavourite", suite.ctx, existing.ID(), suite.userID).Return(true, nil)
		suite.prefs.On("ListForRecipe", suite.ctx, suite.userID, existing.ID()).
			Return([]*preference.FamilyPreference{pref}, nil)

		// Act
		detail, err := suite.service.GetRecipe(suite.ctx, suite.userID, existing.ID())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), existing.Title(), detail.Title)
		assert.True(suite.T(), detail.IsFavourite)
		require.Len(suite.T(), detail.Preferences, 1)
		assert.Equal(suite.T(), "Like", detail.Preferences[0].LevelLabel)
	})

	suite.Run("CacheHitForOtherOwner_ShouldBeNotFound", func() {
		suite.SetupTest()

		// Arrange
		id := uuid.New()
		data, err := json.Marshal(cachedRecipe{OwnerID: uuid.New(), Recipe: inbound.RecipeDTO{ID: id, Title: "Secret"}})
		require.NoError(suite.T(), err)
		suite.cache.On("Get", suite.ctx, "recipe:"+id.String()).Return(data, nil)

		// Act
		_, err = suite.service.GetRecipe(suite.ctx, suite.userID, id)

		// Assert
		assert.True(suite.T(), errors.Is(err, errors.CodeRecipeNotFound))
		suite.recipes.AssertNotCalled(suite.T(), "FindForOwner", mock.Anything, mock.Anything, mock.Anything)
	})
}

func (suite *RecipeServiceTestSuite) TestListRecipes() {
	suite.Run("Filters_ShouldPassThroughWithPaging", func() {
		suite.SetupTest()

		// Arrange
		r1 := testutils.NewRecipeBuilder().WithOwner(suite.userID).MustBuild()
		tagID := uuid.New()
		expected := outbound.SearchCriteria{
			OwnerID:        suite.userID,
			Query:          "tomato",
			TagID:          &tagID,
			FavouritesOnly: true,
			Member:         "Bob",
			Limit:          10,
			Offset:         10,
		}
		suite.recipes.On("Search", suite.ctx, expected).Return([]*recipe.Recipe{r1}, int64(11), nil)
		suite.recipes.On("FavouriteIDs", suite.ctx, suite.userID, []uuid.UUID{r1.ID()}).
			Return(map[uuid.UUID]bool{r1.ID(): true}, nil)

		// Act
		list, err := suite.service.ListRecipes(suite.ctx, suite.userID, inbound.RecipeFilter{
			Query:          " tomato ",
			TagID:          &tagID,
			FavouritesOnly: true,
			Member:         "Bob",
			Page:           2,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 2, list.Page)
		assert.Equal(suite.T(), 2, list.Pages)
		assert.Equal(suite.T(), int64(11), list.Total)
		require.Len(suite.T(), list.Items, 1)
		assert.True(suite.T(), list.Items[0].IsFavourite)
		assert.True(suite.T(), list.HasPrevious())
		assert.False(suite.T(), list.HasNext())
	})

	suite.Run("EmptyList_ShouldHaveOnePage", func() {
		suite.SetupTest()

		// Arrange
		suite.recipes.On("Search", suite.ctx, mock.Anything).Return([]*recipe.Recipe{}, int64(0), nil)
		suite.recipes.On("FavouriteIDs", suite.ctx, suite.userID, []uuid.UUID{}).Return(map[uuid.UUID]bool{}, nil)

		// Act
		list, err := suite.service.ListRecipes(suite.ctx, suite.userID, inbound.RecipeFilter{})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 1, list.Page)
		assert.Equal(suite.T(), 1, list.Pages)
		assert.Empty(suite.T(), list.Items)
	})
}

func (suite *RecipeServiceTestSuite) TestShoppingList() {
	suite.Run("SharedLines_ShouldAppearOnce", func() {
		suite.SetupTest()

		// Arrange
		soup := testutils.NewRecipeBuilder().WithOwner(suite.userID).WithIngredients("Tomatoes", "Onion").MustBuild()
		salad := testutils.NewRecipeBuilder().WithOwner(suite.userID).WithIngredients("Tomatoes", "Lettuce").MustBuild()
		ids := []uuid.UUID{soup.ID(), salad.ID()}
		suite.recipes.On("FindByIDsForOwner", suite.ctx, suite.userID, ids).Return([]*recipe.Recipe{soup, salad}, nil)

		// Act
		list, err := suite.service.ShoppingList(suite.ctx, suite.userID, append(ids, soup.ID()))

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{"Lettuce", "Onion", "Tomatoes"}, list.Items)
		assert.Len(suite.T(), list.Recipes, 2)
	})

	suite.Run("NoIDs_ShouldReturnEmptyList", func() {
		suite.SetupTest()

		// Act
		list, err := suite.service.ShoppingList(suite.ctx, suite.userID, nil)

		// Assert
		require.NoError(suite.T(), err)
		assert.NotNil(suite.T(), list.Items)
		assert.Empty(suite.T(), list.Items)
	})
}

func (suite *RecipeServiceTestSuite) TestSeedStarterRecipes() {
	// Arrange
	var titles []string
	suite.recipes.On("Create", suite.ctx, mock.AnythingOfType("*recipe.Recipe")).
		Run(func(args mock.Arguments) {
			titles = append(titles, args.Get(1).(*recipe.Recipe).Title())
		}).
		Return(nil)

	// Act
	err := suite.service.SeedStarterRecipes(suite.ctx, suite.userID)

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Classic Omelette", "Fresh Garden Salad"}, titles)
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
