// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/google/uuid"
)

// RecipeRepository defines the interface for recipe persistence.
// Lookups that take an owner id only return that owner's recipes.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindForOwner(ctx context.Context, ownerID, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*recipe.Recipe, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]*recipe.Recipe, int64, error)

	// Favourites
	IsFavourite(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
	SetFavourite(ctx context.Context, recipeID, userID uuid.UUID, favourite bool) error
	FavouriteIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// SearchCriteria defines list and search parameters for recipes.
// All set filters must match.
type SearchCriteria struct {
	OwnerID        uuid.UUID
	Query          string
	TagID          *uuid.UUID
	FavouritesOnly bool
	Member         string
	Offset         int
	Limit          int
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	List(ctx context.Context) ([]tag.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tag.Tag, error)
	FindByName(ctx context.Context, name string) (*tag.Tag, error)
	Create(ctx context.Context, t tag.Tag) error
}

// MealPlanRepository defines the interface for meal plan persistence
type MealPlanRepository interface {
	Create(ctx context.Context, p *mealplan.MealPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindForOwner(ctx context.Context, ownerID, id uuid.UUID) (*mealplan.MealPlan, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*mealplan.MealPlan, error)
	ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*mealplan.MealPlan, error)
}

// PreferenceRepository defines the interface for family preference persistence
type PreferenceRepository interface {
	// Upsert inserts the preference or updates the level of the existing
	// row with the same (member, recipe, owner).
	Upsert(ctx context.Context, p *preference.FamilyPreference) error
	ListForRecipe(ctx context.Context, ownerID, recipeID uuid.UUID) ([]*preference.FamilyPreference, error)
	Members(ctx context.Context, ownerID uuid.UUID) ([]string, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
