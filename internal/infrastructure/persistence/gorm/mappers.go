package gorm

import (
	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.CreatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	return user.Reconstitute(
		model.ID,
		model.Username,
		model.Email,
		model.PasswordHash,
		model.CreatedAt,
		model.LastLoginAt,
	)
}

// TagToModel converts a tag to a GORM model
func TagToModel(t tag.Tag) TagModel {
	return TagModel{ID: t.ID, Name: t.Name}
}

// ModelToTag converts a GORM model to a tag
func ModelToTag(model TagModel) tag.Tag {
	return tag.Tag{ID: model.ID, Name: model.Name}
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	content := r.Content()
	model := &RecipeModel{
		ID:          r.ID(),
		UserID:      r.OwnerID(),
		Title:       content.Title,
		Author:      content.Author,
		Description: content.Description,
		Ingredients: content.Ingredients,
		Steps:       content.Steps,
		Notes:       content.Notes,
		AIGenerated: r.IsAIGenerated(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}

	for _, t := range r.Tags() {
		model.Tags = append(model.Tags, TagModel{ID: t.ID, Name: t.Name})
	}

	return model
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	tags := make([]recipe.TagRef, 0, len(model.Tags))
	for _, t := range model.Tags {
		tags = append(tags, recipe.TagRef{ID: t.ID, Name: t.Name})
	}

	return recipe.Reconstitute(recipe.Snapshot{
		ID:      model.ID,
		OwnerID: model.UserID,
		Content: recipe.Content{
			Title:       model.Title,
			Author:      model.Author,
			Description: model.Description,
			Ingredients: model.Ingredients,
			Steps:       model.Steps,
			Notes:       model.Notes,
		},
		AIGenerated: model.AIGenerated,
		Tags:        tags,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}

// MealPlanToModel converts a meal plan to a GORM model
func MealPlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	return &MealPlanModel{
		ID:       p.ID(),
		UserID:   p.OwnerID(),
		Date:     p.Date(),
		MealType: string(p.MealType()),
		RecipeID: p.RecipeID(),
	}
}

// ModelToMealPlan converts a GORM model to a meal plan. The recipe must be
// preloaded for the title to be set.
func ModelToMealPlan(model *MealPlanModel) *mealplan.MealPlan {
	return mealplan.Reconstitute(
		model.ID,
		model.UserID,
		model.Date,
		mealplan.MealType(model.MealType),
		model.RecipeID,
		model.Recipe.Title,
	)
}

// PreferenceToModel converts a family preference to a GORM model
func PreferenceToModel(p *preference.FamilyPreference) *PreferenceModel {
	return &PreferenceModel{
		ID:         p.ID(),
		MemberName: p.MemberName(),
		RecipeID:   p.RecipeID(),
		UserID:     p.OwnerID(),
		Preference: int(p.Level()),
		UpdatedAt:  p.UpdatedAt(),
	}
}

// ModelToPreference converts a GORM model to a family preference. The recipe
// must be preloaded for the title to be set.
func ModelToPreference(model *PreferenceModel) *preference.FamilyPreference {
	return preference.Reconstitute(
		model.ID,
		model.UserID,
		model.MemberName,
		model.RecipeID,
		model.Recipe.Title,
		preference.Level(model.Preference),
		model.UpdatedAt,
	)
}
