package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

// Create creates a new recipe together with its tag links
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(model).Error; err != nil {
		return err
	}

	return nil
}

// Update overwrites the recipe's fields and replaces its tag links
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RecipeModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"title":           model.Title,
				"author":          model.Author,
				"description":     model.Description,
				"ingredients":     model.Ingredients,
				"steps":           model.Steps,
				"notes":           model.Notes,
				"is_ai_generated": model.AIGenerated,
				"updated_at":      model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}

		tags := model.Tags
		if tags == nil {
			tags = []TagModel{}
		}
		return tx.Model(&RecipeModel{ID: model.ID}).Omit("Tags.*").Association("Tags").Replace(tags)
	})
}

// Delete removes a recipe with its tag links, favourites, meal plan entries
// and family preferences
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&RecipeModel{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, dependent := range []interface{}{&FavouriteModel{}, &MealPlanModel{}, &PreferenceModel{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}
		return nil
	})
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := preloadTags(r.db.WithContext(ctx)).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindForOwner finds one of the owner's recipes
func (r *RecipeRepository) FindForOwner(ctx context.Context, ownerID, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := preloadTags(r.db.WithContext(ctx)).
		Where("user_id = ?", ownerID).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByIDsForOwner returns the owner's recipes among ids, in the order the
// ids were given. Unknown and foreign ids are skipped.
func (r *RecipeRepository) FindByIDsForOwner(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	var models []RecipeModel
	result := preloadTags(r.db.WithContext(ctx)).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	byID := make(map[uuid.UUID]*RecipeModel, len(models))
	for i := range models {
		byID[models[i].ID] = &models[i]
	}

	recipes := make([]*recipe.Recipe, 0, len(models))
	for _, id := range ids {
		if model, ok := byID[id]; ok {
			recipes = append(recipes, ModelToRecipe(model))
			delete(byID, id)
		}
	}

	return recipes, nil
}

// Search lists the owner's recipes matching criteria, newest first
func (r *RecipeRepository) Search(ctx context.Context, criteria outbound.SearchCriteria) ([]*recipe.Recipe, int64, error) {
	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&RecipeModel{}).
			Where("recipes.user_id = ?", criteria.OwnerID)

		if q := strings.TrimSpace(criteria.Query); q != "" {
			term := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.ingredients) LIKE ?", term, term)
		}

		if criteria.TagID != nil {
			query = query.Where(
				"EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id = ?)",
				*criteria.TagID,
			)
		}

		if criteria.FavouritesOnly {
			query = query.Where(
				"EXISTS (SELECT 1 FROM recipe_favourites f WHERE f.recipe_id = recipes.id AND f.user_id = ?)",
				criteria.OwnerID,
			)
		}

		if member := strings.TrimSpace(criteria.Member); member != "" {
			query = query.Where(
				"EXISTS (SELECT 1 FROM family_preferences p WHERE p.recipe_id = recipes.id "+
					"AND p.user_id = ? AND LOWER(p.family_member_name) = LOWER(?) AND p.preference = ?)",
				criteria.OwnerID, member, int(preference.Like),
			)
		}

		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := preloadTags(filtered()).Order("recipes.created_at DESC").Order("recipes.id ASC")
	if criteria.Limit > 0 {
		query = query.Offset(criteria.Offset).Limit(criteria.Limit)
	}

	var models []RecipeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, total, nil
}

// IsFavourite reports whether the user marked the recipe as a favourite
func (r *RecipeRepository) IsFavourite(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FavouriteModel{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

// SetFavourite adds or removes the favourite mark. Both directions are
// idempotent.
func (r *RecipeRepository) SetFavourite(ctx context.Context, recipeID, userID uuid.UUID, favourite bool) error {
	db := r.db.WithContext(ctx)
	if !favourite {
		return db.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&FavouriteModel{}).Error
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&FavouriteModel{
		RecipeID:  recipeID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}).Error
}

// FavouriteIDs returns which of recipeIDs the user marked as favourites
func (r *RecipeRepository) FavouriteIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	favourites := make(map[uuid.UUID]bool)
	if len(recipeIDs) == 0 {
		return favourites, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&FavouriteModel{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		favourites[id] = true
	}
	return favourites, nil
}
