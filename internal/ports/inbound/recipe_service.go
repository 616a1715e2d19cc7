// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecipesPerPage is the page size of recipe lists
const RecipesPerPage = 10

// RecipeService defines the use cases for recipe management.
// Every operation is scoped to the acting user; recipes owned by someone
// else are reported as not found.
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, userID uuid.UUID, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
	ToggleFavourite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	SeedStarterRecipes(ctx context.Context, userID uuid.UUID) error

	// Queries - operations that read state
	GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeDetailDTO, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, filter RecipeFilter) (*RecipeList, error)
	ShoppingList(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*ShoppingListDTO, error)
	ListTags(ctx context.Context) ([]TagDTO, error)
}

// Command objects for operations

// RecipeFields are the editable fields shared by create and update
type RecipeFields struct {
	Title       string      `json:"title" form:"title" validate:"required,max=200"`
	Author      string      `json:"author" form:"author" validate:"max=100"`
	Description string      `json:"description" form:"description"`
	Ingredients string      `json:"ingredients" form:"ingredients" validate:"required"`
	Steps       string      `json:"steps" form:"steps" validate:"required"`
	Notes       string      `json:"notes" form:"notes"`
	TagIDs      []uuid.UUID `json:"tag_ids" form:"tags"`
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	RecipeFields
	IsAIGenerated bool `json:"is_ai_generated"`
}

// UpdateRecipeCommand replaces every editable field of a recipe
type UpdateRecipeCommand struct {
	RecipeFields
}

// Query objects

// RecipeFilter narrows a recipe list. Set filters combine with AND.
type RecipeFilter struct {
	Query          string
	TagID          *uuid.UUID
	FavouritesOnly bool
	Member         string
	Page           int
}

// Response DTOs

// TagDTO is a tag as shown to clients
type TagDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	Description   string    `json:"description,omitempty"`
	Ingredients   string    `json:"ingredients"`
	Steps         string    `json:"steps"`
	Notes         string    `json:"notes,omitempty"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	IsFavourite   bool      `json:"is_favourite"`
	Tags          []TagDTO  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TagIDs returns the ids of the recipe's tags
func (r RecipeDTO) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// RecipeDetailDTO is a recipe with its family preferences
type RecipeDetailDTO struct {
	RecipeDTO
	Preferences []PreferenceDTO `json:"preferences"`
}

// RecipeList is a page of recipes
type RecipeList struct {
	Items    []RecipeDTO `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Pages    int         `json:"pages"`
}

// HasPrevious reports whether there is a page before this one
func (l RecipeList) HasPrevious() bool { return l.Page > 1 }

// HasNext reports whether there is a page after this one
func (l RecipeList) HasNext() bool { return l.Page < l.Pages }

// RecipeSummaryDTO names a recipe
type RecipeSummaryDTO struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// ShoppingListDTO is the deduplicated ingredient list for a set of recipes
type ShoppingListDTO struct {
	Items   []string           `json:"items"`
	Recipes []RecipeSummaryDTO `json:"recipes"`
}
