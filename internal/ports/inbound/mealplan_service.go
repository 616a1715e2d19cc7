package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/google/uuid"
)

// MealPlanService defines the use cases for the weekly meal plan
type MealPlanService interface {
	CreateMealPlan(ctx context.Context, userID uuid.UUID, cmd CreateMealPlanCommand) (*MealPlanDTO, error)
	DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error
	ListMealPlans(ctx context.Context, userID uuid.UUID) ([]MealPlanDTO, error)
	WeekView(ctx context.Context, userID uuid.UUID, weekOffset int) (*WeekDTO, error)
}

// CreateMealPlanCommand schedules a recipe. Date is either an ISO date or
// a phrase such as "next friday".
type CreateMealPlanCommand struct {
	Date     string    `json:"date" form:"date" validate:"required"`
	MealType string    `json:"meal_type" form:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	RecipeID uuid.UUID `json:"recipe_id" form:"recipe" validate:"required"`
}

// MealPlanDTO is a scheduled meal
type MealPlanDTO struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	MealType    string    `json:"meal_type"`
	MealLabel   string    `json:"meal_label"`
	RecipeID    uuid.UUID `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	Display     string    `json:"display"`
}

// DayDTO holds one day of the week view
type DayDTO struct {
	Date      time.Time    `json:"date"`
	Breakfast *MealPlanDTO `json:"breakfast"`
	Lunch     *MealPlanDTO `json:"lunch"`
	Dinner    *MealPlanDTO `json:"dinner"`
}

// WeekDTO is a Monday to Sunday view of the plan
type WeekDTO struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Offset     int       `json:"offset"`
	PrevOffset int       `json:"prev_offset"`
	NextOffset int       `json:"next_offset"`
	Days       []DayDTO  `json:"days"`
}

// MealPlanDTOFrom converts a meal plan for clients
func MealPlanDTOFrom(p *mealplan.MealPlan) MealPlanDTO {
	return MealPlanDTO{
		ID:          p.ID(),
		Date:        p.Date(),
		MealType:    string(p.MealType()),
		MealLabel:   p.MealType().Label(),
		RecipeID:    p.RecipeID(),
		RecipeTitle: p.RecipeTitle(),
		Display:     p.String(),
	}
}
