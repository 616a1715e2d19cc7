package recipe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateIngredients(t *testing.T) {
	t.Run("SharedLine_ShouldAppearOnce", func(t *testing.T) {
		// Arrange
		blocks := []string{"Tomatoes\nBasil", "Tomatoes\nMozzarella"}

		// Act
		got := AggregateIngredients(blocks)

		// Assert
		assert.Equal(t, []string{"Basil", "Mozzarella", "Tomatoes"}, got)
	})

	t.Run("EmptyInput_ShouldReturnEmptyList", func(t *testing.T) {
		// Act
		got := AggregateIngredients(nil)

		// Assert
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("WhitespaceAndBlankLines_ShouldBeNormalised", func(t *testing.T) {
		// Arrange
		blocks := []string{"  Salt \n\n Pepper", "Salt\n   \n"}

		// Act
		got := AggregateIngredients(blocks)

		// Assert
		assert.Equal(t, []string{"Pepper", "Salt"}, got)
	})

	t.Run("DifferentCase_ShouldNotBeMerged", func(t *testing.T) {
		// Act
		got := AggregateIngredients([]string{"salt", "Salt"})

		// Assert
		assert.Equal(t, []string{"Salt", "salt"}, got)
	})
}

func TestShoppingList_StarterRecipes(t *testing.T) {
	// Arrange
	owner := uuid.New()
	var recipes []*Recipe
	for _, c := range StarterRecipes {
		r, err := NewRecipe(owner, c, false)
		require.NoError(t, err)
		recipes = append(recipes, r)
	}

	// Act
	got := ShoppingList(recipes)

	// Assert
	assert.Equal(t, []string{
		"2 eggs", "Butter", "Cucumber", "Lemon juice", "Lettuce",
		"Olive oil", "Pepper", "Salt", "Tomato",
	}, got)
}
