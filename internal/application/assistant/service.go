// Package assistant provides the application layer for assistant-drafted recipes
package assistant

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SystemMessage = "You're a helpful chef assistant."

	GenerateTemperature = 0.7
	SurpriseTemperature = 0.9

	DraftTTL = 30 * time.Minute
)

const generatePrompt = "Create a family-friendly recipe using: %s. " +
	"Include a title, ingredients, and clear steps. Format as:\n" +
	"Title:\nIngredients:\nSteps:"

const surprisePrompt = "Invent a unique, family-friendly recipe that mixes common and surprising ingredients. " +
	"Include a title, ingredients, and clear steps. Format as:\n" +
	"Title:\nIngredients:\nSteps:"

// Config holds the model settings used for completions
type Config struct {
	Model     string
	MaxTokens int
}

// AssistantService implements the assistant use cases. A nil client means
// no provider is configured.
type AssistantService struct {
	client outbound.AssistantClient
	cache  outbound.CacheRepository
	cfg    Config
	logger *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	client outbound.AssistantClient,
	cache outbound.CacheRepository,
	cfg Config,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		client: client,
		cache:  cache,
		cfg:    cfg,
		logger: logger.Named("assistant-service"),
	}
}

// BuildGeneratePrompt wraps the user's request in the formatting instructions
func BuildGeneratePrompt(prompt string) string {
	return fmt.Sprintf(generatePrompt, strings.TrimSpace(prompt))
}

// Generate drafts a recipe from the user's prompt
func (s *AssistantService) Generate(ctx context.Context, userID uuid.UUID, cmd inbound.GenerateRecipeCommand) (*inbound.GenerationDTO, error) {
	cmd.Prompt = strings.TrimSpace(cmd.Prompt)
	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	s.logger.Info("Generating recipe",
		zap.String("user_id", userID.String()),
		zap.Int("prompt_length", len(cmd.Prompt)),
	)

	text, err := s.complete(ctx, BuildGeneratePrompt(cmd.Prompt), GenerateTemperature)
	if err != nil {
		return nil, err
	}

	return &inbound.GenerationDTO{Text: text, Draft: s.Parse(text)}, nil
}

// Surprise drafts a recipe of the assistant's choosing
func (s *AssistantService) Surprise(ctx context.Context, userID uuid.UUID) (*inbound.GenerationDTO, error) {
	s.logger.Info("Generating surprise recipe", zap.String("user_id", userID.String()))

	text, err := s.complete(ctx, surprisePrompt, SurpriseTemperature)
	if err != nil {
		return nil, err
	}

	return &inbound.GenerationDTO{Text: text, Draft: s.Parse(text)}, nil
}

// Parse splits generated text into a draft
func (s *AssistantService) Parse(text string) inbound.RecipeDraft {
	parsed := recipe.ParseGeneratedRecipe(text)
	return inbound.RecipeDraft{
		Title:         parsed.Title,
		Ingredients:   parsed.Ingredients,
		Steps:         parsed.Steps,
		IsAIGenerated: true,
	}
}

func draftKey(sessionKey string) string {
	return "assistant:draft:" + sessionKey
}

// StashDraft keeps a draft for the session
func (s *AssistantService) StashDraft(ctx context.Context, sessionKey string, draft inbound.RecipeDraft) error {
	draft.IsAIGenerated = true
	data, err := json.Marshal(draft)
	if err != nil {
		return errors.Wrap(err, "failed to encode draft")
	}
	if err := s.cache.Set(ctx, draftKey(sessionKey), data, DraftTTL); err != nil {
		return errors.NewInternalError("failed to store draft").WithCause(err)
	}
	return nil
}

// LoadDraft returns the session's draft and leaves it in place. A missing
// draft yields nil without error.
func (s *AssistantService) LoadDraft(ctx context.Context, sessionKey string) (*inbound.RecipeDraft, error) {
	key := draftKey(sessionKey)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, outbound.ErrCacheMiss) {
			return nil, nil
		}
		return nil, errors.NewInternalError("failed to load draft").WithCause(err)
	}

	var draft inbound.RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		s.logger.Warn("Discarding unreadable draft", zap.String("key", key), zap.Error(err))
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to clear draft", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}
	return &draft, nil
}

// DiscardDraft forgets the session's draft once the recipe is saved
func (s *AssistantService) DiscardDraft(ctx context.Context, sessionKey string) error {
	if err := s.cache.Delete(ctx, draftKey(sessionKey)); err != nil {
		return errors.NewInternalError("failed to clear draft").WithCause(err)
	}
	return nil
}

func (s *AssistantService) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if s.client == nil {
		return "", errors.NewAIUnavailableError("none")
	}

	start := time.Now()
	text, err := s.client.Complete(ctx, outbound.CompletionRequest{
		System:      SystemMessage,
		Prompt:      prompt,
		Model:       s.cfg.Model,
		Temperature: temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		s.logger.Error("Assistant request failed",
			zap.String("provider", s.client.Provider()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", errors.NewExternalServiceError(s.client.Provider(), err)
	}

	s.logger.Debug("Assistant request completed",
		zap.String("provider", s.client.Provider()),
		zap.Duration("duration", time.Since(start)),
	)
	return strings.TrimSpace(text), nil
}
