package inbound

import (
	"context"

	"github.com/google/uuid"
)

// AssistantService drafts recipes with a text-generation provider
type AssistantService interface {
	Generate(ctx context.Context, userID uuid.UUID, cmd GenerateRecipeCommand) (*GenerationDTO, error)
	Surprise(ctx context.Context, userID uuid.UUID) (*GenerationDTO, error)
	Parse(text string) RecipeDraft

	// StashDraft keeps a draft for the session until DiscardDraft drops it
	StashDraft(ctx context.Context, sessionKey string, draft RecipeDraft) error
	LoadDraft(ctx context.Context, sessionKey string) (*RecipeDraft, error)
	DiscardDraft(ctx context.Context, sessionKey string) error
}

// GenerateRecipeCommand asks for a recipe from a list of ingredients or an idea
type GenerateRecipeCommand struct {
	Prompt string `json:"prompt" form:"prompt" validate:"required,max=2000"`
}

// ParseCommand carries free text to parse
type ParseCommand struct {
	Text string `json:"text" validate:"required"`
}

// RecipeDraft is a parsed, unsaved recipe
type RecipeDraft struct {
	Title         string `json:"title"`
	Ingredients   string `json:"ingredients"`
	Steps         string `json:"steps"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}

// GenerationDTO is the raw assistant reply and its parsed draft
type GenerationDTO struct {
	Text  string      `json:"text"`
	Draft RecipeDraft `json:"draft"`
}
