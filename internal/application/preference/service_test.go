package preference

import (
	"context"
	"testing"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) (*PreferenceService, *testutils.MockPreferenceRepository, *testutils.MockRecipeRepository) {
	prefs := &testutils.MockPreferenceRepository{}
	recipes := &testutils.MockRecipeRepository{}
	return NewPreferenceService(prefs, recipes, zaptest.NewLogger(t)), prefs, recipes
}

func TestSetPreference(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("ValidCommand_ShouldUpsert", func(t *testing.T) {
		// Arrange
		service, prefs, recipes := setup(t)
		pasta := testutils.NewRecipeBuilder().WithOwner(userID).WithTitle("Pasta").MustBuild()
		recipes.On("FindForOwner", ctx, userID, pasta.ID()).Return(pasta, nil)
		prefs.On("Upsert", ctx, mock.MatchedBy(func(p *preference.FamilyPreference) bool {
			return p.MemberName() == "Bob" && p.Level() == preference.Dislike && p.RecipeID() == pasta.ID()
		})).Return(nil)

		// Act
		dto, err := service.SetPreference(ctx, userID, pasta.ID(), inbound.SetPreferenceCommand{
			MemberName: "  Bob ",
			Level:      1,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Bob - Pasta: Dislike", dto.Display)
		prefs.AssertExpectations(t)
	})

	t.Run("LevelOutOfRange_ShouldFailValidation", func(t *testing.T) {
		// Arrange
		service, prefs, _ := setup(t)

		// Act
		_, err := service.SetPreference(ctx, userID, uuid.New(), inbound.SetPreferenceCommand{
			MemberName: "Bob",
			Level:      4,
		})

		// Assert
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.CodeValidationFailed, appErr.Code)
		assert.Contains(t, appErr.Fields, "preference")
		prefs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("ForeignRecipe_ShouldBeNotFound", func(t *testing.T) {
		// Arrange
		service, _, recipes := setup(t)
		id := uuid.New()
		recipes.On("FindForOwner", ctx, userID, id).Return(nil, recipe.ErrRecipeNotFound)

		// Act
		_, err := service.SetPreference(ctx, userID, id, inbound.SetPreferenceCommand{MemberName: "Bob", Level: 3})

		// Assert
		assert.True(t, errors.Is(err, errors.CodeRecipeNotFound))
	})
}

func TestMembers(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("NoneRecorded_ShouldReturnEmptySlice", func(t *testing.T) {
		service, prefs, _ := setup(t)
		prefs.On("Members", ctx, userID).Return(nil, nil)

		members, err := service.Members(ctx, userID)

		require.NoError(t, err)
		assert.NotNil(t, members)
		assert.Empty(t, members)
	})

	t.Run("Recorded_ShouldPassThrough", func(t *testing.T) {
		service, prefs, _ := setup(t)
		prefs.On("Members", ctx, userID).Return([]string{"Ann", "Bob"}, nil)

		members, err := service.Members(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, []string{"Ann", "Bob"}, members)
	})
}
