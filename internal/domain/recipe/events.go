package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeCreatedEvent is raised when a new recipe is created
type RecipeCreatedEvent struct {
	RecipeID      uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	IsAIGenerated bool
	CreatedAt     time.Time
}

func (e RecipeCreatedEvent) EventName() string {
	return "recipe.created"
}

func (e RecipeCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// RecipeUpdatedEvent is raised when a recipe's content changes
type RecipeUpdatedEvent struct {
	RecipeID  uuid.UUID
	OldTitle  string
	NewTitle  string
	UpdatedAt time.Time
}

func (e RecipeUpdatedEvent) EventName() string {
	return "recipe.updated"
}

func (e RecipeUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// RecipeFavouritedEvent is raised when the owner toggles the favourite flag
type RecipeFavouritedEvent struct {
	RecipeID  uuid.UUID
	UserID    uuid.UUID
	Favourite bool
	ToggledAt time.Time
}

func (e RecipeFavouritedEvent) EventName() string {
	if e.Favourite {
		return "recipe.favourited"
	}
	return "recipe.unfavourited"
}

func (e RecipeFavouritedEvent) OccurredAt() time.Time {
	return e.ToggledAt
}
