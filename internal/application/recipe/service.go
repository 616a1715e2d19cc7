// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recipeCacheTTL = time.Hour

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	tagRepo    outbound.TagRepository
	prefRepo   outbound.PreferenceRepository
	cache      outbound.CacheRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	tagRepo outbound.TagRepository,
	prefRepo outbound.PreferenceRepository,
	cache outbound.CacheRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		tagRepo:    tagRepo,
		prefRepo:   prefRepo,
		cache:      cache,
		events:     events,
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("user_id", userID.String()),
	)

	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, cmd.TagIDs)
	if err != nil {
		return nil, err
	}

	recipeEntity, err := recipe.NewRecipe(userID, contentFrom(cmd.RecipeFields), cmd.IsAIGenerated)
	if err != nil {
		return nil, recipeValidationError(err)
	}
	recipeEntity.SetTags(tags)

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}

	s.events.Publish(recipeEntity.Events()...)

	dto := toRecipeDTO(recipeEntity, false)

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", dto.ID.String()),
		zap.Bool("ai_generated", dto.IsAIGenerated),
	)

	return dto, nil
}

// UpdateRecipe replaces the editable fields and tags of a recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Info("Updating recipe",
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", userID.String()),
	)

	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	recipeEntity, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, cmd.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := recipeEntity.Update(contentFrom(cmd.RecipeFields)); err != nil {
		return nil, recipeValidationError(err)
	}
	recipeEntity.SetTags(tags)

	if err := s.recipeRepo.Update(ctx, recipeEntity); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}

	s.events.Publish(recipeEntity.Events()...)
	s.invalidateRecipeCache(ctx, recipeID)

	favourite, err := s.recipeRepo.IsFavourite(ctx, recipeID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("check favourite", err)
	}

	return toRecipeDTO(recipeEntity, favourite), nil
}

// DeleteRecipe removes a recipe along with its meal plans and preferences
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	s.invalidateRecipeCache(ctx, recipeID)

	s.logger.Info("Recipe deleted",
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// ToggleFavourite flips the user's favourite flag and returns the new state
func (s *RecipeService) ToggleFavourite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return false, err
	}

	favourite, err := s.recipeRepo.IsFavourite(ctx, recipeID, userID)
	if err != nil {
		return false, errors.NewDatabaseError("check favourite", err)
	}

	favourite = !favourite
	if err := s.recipeRepo.SetFavourite(ctx, recipeID, userID, favourite); err != nil {
		return false, errors.NewDatabaseError("set favourite", err)
	}

	s.events.Publish(recipe.RecipeFavouritedEvent{
		RecipeID:  recipeID,
		UserID:    userID,
		Favourite: favourite,
		ToggledAt: time.Now(),
	})

	return favourite, nil
}

// SeedStarterRecipes gives a new user a couple of recipes to start from
func (s *RecipeService) SeedStarterRecipes(ctx context.Context, userID uuid.UUID) error {
	for _, content := range recipe.StarterRecipes {
		recipeEntity, err := recipe.NewRecipe(userID, content, false)
		if err != nil {
			return errors.Wrap(err, "failed to build starter recipe")
		}
		if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
			return errors.NewDatabaseError("create starter recipe", err)
		}
		s.events.Publish(recipeEntity.Events()...)
	}

	s.logger.Debug("Seeded starter recipes",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(recipe.StarterRecipes)),
	)
	return nil
}

// GetRecipe returns a recipe with the user's favourite flag and the
// family preferences recorded for it
func (s *RecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDetailDTO, error) {
	dto, err := s.loadRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	favourite, err := s.recipeRepo.IsFavourite(ctx, recipeID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("check favourite", err)
	}
	dto.IsFavourite = favourite

	prefs, err := s.prefRepo.ListForRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("list preferences", err)
	}

	detail := &inbound.RecipeDetailDTO{
		RecipeDTO:   *dto,
		Preferences: make([]inbound.PreferenceDTO, 0, len(prefs)),
	}
	for _, p := range prefs {
		detail.Preferences = append(detail.Preferences, inbound.PreferenceDTOFrom(p))
	}
	return detail, nil
}

// ListRecipes returns a page of the user's recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, filter inbound.RecipeFilter) (*inbound.RecipeList, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	criteria := outbound.SearchCriteria{
		OwnerID:        userID,
		Query:          strings.TrimSpace(filter.Query),
		TagID:          filter.TagID,
		FavouritesOnly: filter.FavouritesOnly,
		Member:         strings.TrimSpace(filter.Member),
		Limit:          inbound.RecipesPerPage,
		Offset:         (page - 1) * inbound.RecipesPerPage,
	}

	recipes, total, err := s.recipeRepo.Search(ctx, criteria)
	if err != nil {
		return nil, errors.NewDatabaseError("search recipes", err)
	}

	pages := pageCount(total)
	if page > pages {
		// Out of range pages show the last page
		page = pages
		criteria.Offset = (page - 1) * inbound.RecipesPerPage
		if recipes, total, err = s.recipeRepo.Search(ctx, criteria); err != nil {
			return nil, errors.NewDatabaseError("search recipes", err)
		}
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID()
	}
	favourites, err := s.recipeRepo.FavouriteIDs(ctx, userID, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("load favourites", err)
	}

	items := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, *toRecipeDTO(r, favourites[r.ID()]))
	}

	return &inbound.RecipeList{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: inbound.RecipesPerPage,
		Pages:    pages,
	}, nil
}

// ShoppingList aggregates the ingredients of the user's selected recipes.
// Ids that are unknown or belong to someone else are ignored.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*inbound.ShoppingListDTO, error) {
	ids := uniqueIDs(recipeIDs)
	if len(ids) == 0 {
		return &inbound.ShoppingListDTO{Items: []string{}, Recipes: []inbound.RecipeSummaryDTO{}}, nil
	}

	recipes, err := s.recipeRepo.FindByIDsForOwner(ctx, userID, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipes", err)
	}

	summaries := make([]inbound.RecipeSummaryDTO, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, inbound.RecipeSummaryDTO{ID: r.ID(), Title: r.Title()})
	}

	return &inbound.ShoppingListDTO{
		Items:   recipe.ShoppingList(recipes),
		Recipes: summaries,
	}, nil
}

// ListTags returns every tag, alphabetically
func (s *RecipeService) ListTags(ctx context.Context) ([]inbound.TagDTO, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list tags", err)
	}

	out := make([]inbound.TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, inbound.TagDTO{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

// ownedRecipe loads a recipe, treating other users' recipes as missing
func (s *RecipeService) ownedRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	recipeEntity, err := s.recipeRepo.FindForOwner(ctx, userID, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	return recipeEntity, nil
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]recipe.TagRef, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("find tags", err)
	}
	if len(tags) != len(ids) {
		return nil, errors.NewValidationError(tag.ErrTagNotFound.Error()).
			WithField("tag_ids", "Select a valid choice.")
	}

	refs := make([]recipe.TagRef, len(tags))
	for i, t := range tags {
		refs[i] = recipe.TagRef{ID: t.ID, Name: t.Name}
	}
	return refs, nil
}

// Cache operations

// cachedRecipe is the cache payload; the owner is kept so that a cache hit
// still respects ownership
type cachedRecipe struct {
	OwnerID uuid.UUID         `json:"owner_id"`
	Recipe  inbound.RecipeDTO `json:"recipe"`
}

func recipeCacheKey(recipeID uuid.UUID) string {
	return fmt.Sprintf("recipe:%s", recipeID.String())
}

// loadRecipe reads through the cache
func (s *RecipeService) loadRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	key := recipeCacheKey(recipeID)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached cachedRecipe
		if err := json.Unmarshal(data, &cached); err == nil {
			if cached.OwnerID != userID {
				return nil, errors.NewRecipeNotFoundError(recipeID.String())
			}
			return &cached.Recipe, nil
		}
		s.logger.Warn("Discarding unreadable cache entry", zap.String("key", key))
	} else if !stderrors.Is(err, outbound.ErrCacheMiss) {
		s.logger.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	recipeEntity, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	dto := toRecipeDTO(recipeEntity, false)
	data, err := json.Marshal(cachedRecipe{OwnerID: userID, Recipe: *dto})
	if err == nil {
		if err := s.cache.Set(ctx, key, data, recipeCacheTTL); err != nil {
			s.logger.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return dto, nil
}

// invalidateRecipeCache invalidates recipe cache
func (s *RecipeService) invalidateRecipeCache(ctx context.Context, recipeID uuid.UUID) {
	if err := s.cache.Delete(ctx, recipeCacheKey(recipeID)); err != nil {
		s.logger.Warn("Failed to invalidate recipe cache",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err),
		)
	}
}

// recipeValidationError maps domain validation errors to form fields
func recipeValidationError(err error) error {
	field := ""
	switch {
	case stderrors.Is(err, recipe.ErrTitleRequired), stderrors.Is(err, recipe.ErrTitleTooLong):
		field = "title"
	case stderrors.Is(err, recipe.ErrAuthorTooLong):
		field = "author"
	case stderrors.Is(err, recipe.ErrIngredientsRequired):
		field = "ingredients"
	case stderrors.Is(err, recipe.ErrStepsRequired):
		field = "steps"
	default:
		return errors.Wrap(err, "invalid recipe")
	}
	return errors.NewValidationError(err.Error()).WithField(field, err.Error())
}

func contentFrom(f inbound.RecipeFields) recipe.Content {
	return recipe.Content{
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
		Notes:       f.Notes,
	}
}

func toRecipeDTO(r *recipe.Recipe, favourite bool) *inbound.RecipeDTO {
	tags := make([]inbound.TagDTO, 0, len(r.Tags()))
	for _, t := range r.Tags() {
		tags = append(tags, inbound.TagDTO{ID: t.ID, Name: t.Name})
	}

	return &inbound.RecipeDTO{
		ID:            r.ID(),
		Title:         r.Title(),
		Author:        r.Author(),
		Description:   r.Description(),
		Ingredients:   r.Ingredients(),
		Steps:         r.Steps(),
		Notes:         r.Notes(),
		IsAIGenerated: r.IsAIGenerated(),
		IsFavourite:   favourite,
		Tags:          tags,
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func pageCount(total int64) int {
	if total <= 0 {
		return 1
	}
	return int((total + inbound.RecipesPerPage - 1) / inbound.RecipesPerPage)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
