// Package mealplan provides the application layer for the weekly meal plan
package mealplan

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MealPlanService implements the meal plan use cases
type MealPlanService struct {
	planRepo   outbound.MealPlanRepository
	recipeRepo outbound.RecipeRepository
	dates      *DateParser
	now        func() time.Time
	logger     *zap.Logger
}

// NewMealPlanService creates a new meal plan service
func NewMealPlanService(
	planRepo outbound.MealPlanRepository,
	recipeRepo outbound.RecipeRepository,
	logger *zap.Logger,
) *MealPlanService {
	return &MealPlanService{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		dates:      NewDateParser(),
		now:        time.Now,
		logger:     logger.Named("mealplan-service"),
	}
}

// WithClock overrides the service's notion of today
func (s *MealPlanService) WithClock(now func() time.Time) *MealPlanService {
	s.now = now
	return s
}

// CreateMealPlan schedules one of the user's recipes
func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID uuid.UUID, cmd inbound.CreateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	date, err := s.dates.Parse(cmd.Date, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithField("date", err.Error())
	}

	mealType, err := mealplan.ParseMealType(cmd.MealType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithField("meal_type", err.Error())
	}

	r, err := s.recipeRepo.FindForOwner(ctx, userID, cmd.RecipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	plan, err := mealplan.New(userID, date, mealType, r.ID(), r.Title())
	if err != nil {
		return nil, errors.Wrap(err, "invalid meal plan")
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, errors.NewDatabaseError("create meal plan", err)
	}

	s.logger.Info("Meal planned",
		zap.String("plan_id", plan.ID().String()),
		zap.String("date", plan.Date().Format(mealplan.DateLayout)),
		zap.String("meal_type", string(plan.MealType())),
	)

	dto := inbound.MealPlanDTOFrom(plan)
	return &dto, nil
}

// DeleteMealPlan removes one of the user's plans
func (s *MealPlanService) DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error {
	if _, err := s.planRepo.FindForOwner(ctx, userID, planID); err != nil {
		if stderrors.Is(err, mealplan.ErrMealPlanNotFound) {
			return errors.NewMealPlanNotFoundError(planID.String())
		}
		return errors.NewDatabaseError("find meal plan", err)
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return errors.NewDatabaseError("delete meal plan", err)
	}
	return nil
}

// ListMealPlans returns every plan ordered by date then meal type
func (s *MealPlanService) ListMealPlans(ctx context.Context, userID uuid.UUID) ([]inbound.MealPlanDTO, error) {
	plans, err := s.planRepo.ListForOwner(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plans", err)
	}

	out := make([]inbound.MealPlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, inbound.MealPlanDTOFrom(p))
	}
	return out, nil
}

// WeekView returns the Monday to Sunday plan, weekOffset weeks from now
func (s *MealPlanService) WeekView(ctx context.Context, userID uuid.UUID, weekOffset int) (*inbound.WeekDTO, error) {
	today := s.now()
	start := mealplan.WeekStart(today, weekOffset)
	end := start.AddDate(0, 0, 6)

	plans, err := s.planRepo.ListBetween(ctx, userID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plans", err)
	}

	week := mealplan.BuildWeek(today, weekOffset, plans)

	dto := &inbound.WeekDTO{
		Start:      week.Start,
		End:        week.End,
		Offset:     week.Offset,
		PrevOffset: week.PrevOffset,
		NextOffset: week.NextOffset,
		Days:       make([]inbound.DayDTO, 0, len(week.Days)),
	}
	for _, d := range week.Days {
		dto.Days = append(dto.Days, inbound.DayDTO{
			Date:      d.Date,
			Breakfast: slotDTO(d.Breakfast),
			Lunch:     slotDTO(d.Lunch),
			Dinner:    slotDTO(d.Dinner),
		})
	}
	return dto, nil
}

func slotDTO(p *mealplan.MealPlan) *inbound.MealPlanDTO {
	if p == nil {
		return nil
	}
	dto := inbound.MealPlanDTOFrom(p)
	return &dto
}
