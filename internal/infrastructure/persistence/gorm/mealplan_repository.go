package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// Create stores a new meal plan entry
func (r *MealPlanRepository) Create(ctx context.Context, p *mealplan.MealPlan) error {
	return r.db.WithContext(ctx).Omit("Recipe").Create(MealPlanToModel(p)).Error
}

// Delete removes a meal plan entry
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&MealPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrMealPlanNotFound
	}
	return nil
}

// FindForOwner finds one of the owner's meal plan entries
func (r *MealPlanRepository) FindForOwner(ctx context.Context, ownerID, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel
	result := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", ownerID).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrMealPlanNotFound
		}
		return nil, result.Error
	}
	return ModelToMealPlan(&model), nil
}

// ListForOwner returns all of the owner's entries by date
func (r *MealPlanRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*mealplan.MealPlan, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", ownerID))
}

// ListBetween returns the owner's entries dated from..to inclusive
func (r *MealPlanRepository) ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*mealplan.MealPlan, error) {
	return r.list(r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", ownerID, mealplan.Day(from), mealplan.Day(to)))
}

// mealTypeOrder sorts slots breakfast, lunch, dinner
const mealTypeOrder = "CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END"

func (r *MealPlanRepository) list(query *gorm.DB) ([]*mealplan.MealPlan, error) {
	var models []MealPlanModel
	if err := query.Preload("Recipe").Order("date ASC").Order(mealTypeOrder).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]*mealplan.MealPlan, len(models))
	for i := range models {
		plans[i] = ModelToMealPlan(&models[i])
	}
	return plans, nil
}
