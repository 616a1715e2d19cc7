package handlers

import (
	"context"

	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockRecipeService struct {
	mock.Mock
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, userID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeDTO), args.Error(1)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, userID, recipeID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeDTO), args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *mockRecipeService) ToggleFavourite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeService) SeedStarterRecipes(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDetailDTO, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeDetailDTO), args.Error(1)
}

func (m *mockRecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, filter inbound.RecipeFilter) (*inbound.RecipeList, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeList), args.Error(1)
}

func (m *mockRecipeService) ShoppingList(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*inbound.ShoppingListDTO, error) {
	args := m.Called(ctx, userID, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ShoppingListDTO), args.Error(1)
}

func (m *mockRecipeService) ListTags(ctx context.Context) ([]inbound.TagDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.TagDTO), args.Error(1)
}

type mockMealPlanService struct {
	mock.Mock
}

func (m *mockMealPlanService) CreateMealPlan(ctx context.Context, userID uuid.UUID, cmd inbound.CreateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	args := m.Called(ctx, userID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.MealPlanDTO), args.Error(1)
}

func (m *mockMealPlanService) DeleteMealPlan(ctx context.Context, userID, planID uuid.UUID) error {
	return m.Called(ctx, userID, planID).Error(0)
}

func (m *mockMealPlanService) ListMealPlans(ctx context.Context, userID uuid.UUID) ([]inbound.MealPlanDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.MealPlanDTO), args.Error(1)
}

func (m *mockMealPlanService) WeekView(ctx context.Context, userID uuid.UUID, weekOffset int) (*inbound.WeekDTO, error) {
	args := m.Called(ctx, userID, weekOffset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.WeekDTO), args.Error(1)
}

type mockPreferenceService struct {
	mock.Mock
}

func (m *mockPreferenceService) SetPreference(ctx context.Context, userID, recipeID uuid.UUID, cmd inbound.SetPreferenceCommand) (*inbound.PreferenceDTO, error) {
	args := m.Called(ctx, userID, recipeID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PreferenceDTO), args.Error(1)
}

func (m *mockPreferenceService) ListForRecipe(ctx context.Context, userID, recipeID uuid.UUID) ([]inbound.PreferenceDTO, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.PreferenceDTO), args.Error(1)
}

func (m *mockPreferenceService) Members(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.UserDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserDTO), args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, cmd inbound.LoginCommand) (*inbound.UserDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserDTO), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserDTO), args.Error(1)
}

type mockAssistantService struct {
	mock.Mock
}

func (m *mockAssistantService) Generate(ctx context.Context, userID uuid.UUID, cmd inbound.GenerateRecipeCommand) (*inbound.GenerationDTO, error) {
	args := m.Called(ctx, userID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.GenerationDTO), args.Error(1)
}

func (m *mockAssistantService) Surprise(ctx context.Context, userID uuid.UUID) (*inbound.GenerationDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.GenerationDTO), args.Error(1)
}

func (m *mockAssistantService) Parse(text string) inbound.RecipeDraft {
	return m.Called(text).Get(0).(inbound.RecipeDraft)
}

func (m *mockAssistantService) StashDraft(ctx context.Context, sessionKey string, draft inbound.RecipeDraft) error {
	return m.Called(ctx, sessionKey, draft).Error(0)
}

func (m *mockAssistantService) LoadDraft(ctx context.Context, sessionKey string) (*inbound.RecipeDraft, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeDraft), args.Error(1)
}

func (m *mockAssistantService) DiscardDraft(ctx context.Context, sessionKey string) error {
	return m.Called(ctx, sessionKey).Error(0)
}
