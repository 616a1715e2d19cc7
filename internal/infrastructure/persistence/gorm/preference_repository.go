package gorm

import (
	"context"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository implements the preference repository interface using GORM
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

var _ outbound.PreferenceRepository = (*PreferenceRepository)(nil)

// Upsert inserts the preference or updates the level of the row with the
// same (member, recipe, owner)
func (r *PreferenceRepository) Upsert(ctx context.Context, p *preference.FamilyPreference) error {
	model := PreferenceToModel(p)
	return r.db.WithContext(ctx).
		Omit("Recipe").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "family_member_name"}, {Name: "recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"preference", "updated_at"}),
		}).
		Create(model).Error
}

// ListForRecipe returns the owner's preferences for a recipe by member name
func (r *PreferenceRepository) ListForRecipe(ctx context.Context, ownerID, recipeID uuid.UUID) ([]*preference.FamilyPreference, error) {
	var models []PreferenceModel
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ? AND recipe_id = ?", ownerID, recipeID).
		Order("family_member_name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	prefs := make([]*preference.FamilyPreference, len(models))
	for i := range models {
		prefs[i] = ModelToPreference(&models[i])
	}
	return prefs, nil
}

// Members returns the distinct member names the owner has recorded
func (r *PreferenceRepository) Members(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var members []string
	err := r.db.WithContext(ctx).Model(&PreferenceModel{}).
		Where("user_id = ?", ownerID).
		Distinct("family_member_name").
		Order("family_member_name ASC").
		Pluck("family_member_name", &members).Error
	return members, err
}
