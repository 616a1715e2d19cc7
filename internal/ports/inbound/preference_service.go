package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/google/uuid"
)

// PreferenceService records how family members feel about recipes
type PreferenceService interface {
	SetPreference(ctx context.Context, userID, recipeID uuid.UUID, cmd SetPreferenceCommand) (*PreferenceDTO, error)
	ListForRecipe(ctx context.Context, userID, recipeID uuid.UUID) ([]PreferenceDTO, error)
	Members(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// SetPreferenceCommand upserts a member's level for a recipe
type SetPreferenceCommand struct {
	MemberName string `json:"family_member_name" form:"family_member_name" validate:"required,max=100"`
	Level      int    `json:"preference" form:"preference" validate:"required,oneof=1 2 3"`
}

// PreferenceDTO is a family member's preference
type PreferenceDTO struct {
	ID          uuid.UUID `json:"id"`
	MemberName  string    `json:"family_member_name"`
	RecipeID    uuid.UUID `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	Level       int       `json:"preference"`
	LevelLabel  string    `json:"preference_label"`
	Display     string    `json:"display"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PreferenceDTOFrom converts a family preference for clients
func PreferenceDTOFrom(p *preference.FamilyPreference) PreferenceDTO {
	return PreferenceDTO{
		ID:          p.ID(),
		MemberName:  p.MemberName(),
		RecipeID:    p.RecipeID(),
		RecipeTitle: p.RecipeTitle(),
		Level:       int(p.Level()),
		LevelLabel:  p.Level().String(),
		Display:     p.String(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
