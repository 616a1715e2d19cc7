// Package preference provides the application layer for family preferences
package preference

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreferenceService implements the family preference use cases
type PreferenceService struct {
	prefRepo   outbound.PreferenceRepository
	recipeRepo outbound.RecipeRepository
	logger     *zap.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(
	prefRepo outbound.PreferenceRepository,
	recipeRepo outbound.RecipeRepository,
	logger *zap.Logger,
) *PreferenceService {
	return &PreferenceService{
		prefRepo:   prefRepo,
		recipeRepo: recipeRepo,
		logger:     logger.Named("preference-service"),
	}
}

// SetPreference records a member's level for one of the user's recipes,
// replacing any earlier level from the same member
func (s *PreferenceService) SetPreference(ctx context.Context, userID, recipeID uuid.UUID, cmd inbound.SetPreferenceCommand) (*inbound.PreferenceDTO, error) {
	cmd.MemberName = strings.TrimSpace(cmd.MemberName)
	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	r, err := s.recipeRepo.FindForOwner(ctx, userID, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	pref, err := preference.New(userID, cmd.MemberName, r.ID(), r.Title(), preference.Level(cmd.Level))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return nil, errors.NewDatabaseError("save preference", err)
	}

	s.logger.Info("Family preference saved",
		zap.String("recipe_id", recipeID.String()),
		zap.String("member", pref.MemberName()),
		zap.String("level", pref.Level().String()),
	)

	dto := inbound.PreferenceDTOFrom(pref)
	return &dto, nil
}

// ListForRecipe returns the preferences for one of the user's recipes,
// ordered by member name
func (s *PreferenceService) ListForRecipe(ctx context.Context, userID, recipeID uuid.UUID) ([]inbound.PreferenceDTO, error) {
	prefs, err := s.prefRepo.ListForRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("list preferences", err)
	}

	out := make([]inbound.PreferenceDTO, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, inbound.PreferenceDTOFrom(p))
	}
	return out, nil
}

// Members returns the distinct family member names the user has recorded
func (s *PreferenceService) Members(ctx context.Context, userID uuid.UUID) ([]string, error) {
	members, err := s.prefRepo.Members(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list members", err)
	}
	if members == nil {
		members = []string{}
	}
	return members, nil
}
