package handlers

import (
	"net/http"
	"strings"

	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"go.uber.org/zap"
)

type generatePage struct {
	Prompt   string
	Result   *inbound.GenerationDTO
	Surprise bool
}

func (h *WebHandlers) generatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "ai_generate", PageData{Title: "Recipe Assistant", Data: generatePage{}})
}

// generate either asks the assistant for a recipe or, when the user picked
// "use this recipe", stashes the shown draft for the create form
func (h *WebHandlers) generate(w http.ResponseWriter, r *http.Request) {
	p := principal(r)

	if r.PostFormValue("action") == "use" {
		draft := inbound.RecipeDraft{
			Title:         strings.TrimSpace(r.PostFormValue("title")),
			Ingredients:   r.PostFormValue("ingredients"),
			Steps:         r.PostFormValue("steps"),
			IsAIGenerated: true,
		}
		if err := h.assistant.StashDraft(r.Context(), p.TokenID, draft); err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/ai-create/", http.StatusFound)
		return
	}

	prompt := strings.TrimSpace(r.PostFormValue("prompt"))
	result, err := h.assistant.Generate(r.Context(), p.UserID, inbound.GenerateRecipeCommand{Prompt: prompt})
	if err != nil {
		h.assistantError(w, r, prompt, err)
		return
	}

	h.render(w, r, http.StatusOK, "ai_generate", PageData{
		Title: "Recipe Assistant",
		Data:  generatePage{Prompt: prompt, Result: result},
	})
}

func (h *WebHandlers) surprise(w http.ResponseWriter, r *http.Request) {
	result, err := h.assistant.Surprise(r.Context(), principal(r).UserID)
	if err != nil {
		h.assistantError(w, r, "", err)
		return
	}

	h.render(w, r, http.StatusOK, "ai_generate", PageData{
		Title: "Surprise Recipe",
		Data:  generatePage{Result: result, Surprise: true},
	})
}

// assistantError shows validation and provider failures on the assistant
// page. Anything else is a real error.
func (h *WebHandlers) assistantError(w http.ResponseWriter, r *http.Request, prompt string, err error) {
	data := PageData{Title: "Recipe Assistant", Data: generatePage{Prompt: prompt}}

	switch {
	case errors.Is(err, errors.CodeValidationFailed):
		data.Errors = map[string]string{"prompt": "Tell the assistant what you have or what you feel like."}
		h.render(w, r, http.StatusBadRequest, "ai_generate", data)
	case assistantFailure(err):
		h.logger.Warn("Assistant request failed", zap.Error(err))
		data.Flash = &Flash{Level: FlashError, Message: "The recipe assistant is unavailable right now. Please try again later."}
		h.render(w, r, http.StatusOK, "ai_generate", data)
	default:
		h.fail(w, r, err)
	}
}

func (h *WebHandlers) createFromDraftPage(w http.ResponseWriter, r *http.Request) {
	draft, err := h.assistant.LoadDraft(r.Context(), principal(r).TokenID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if draft == nil {
		redirectWithFlash(w, r, "/ai-generate/", FlashInfo, "Generate a recipe first, then choose to use it.")
		return
	}

	h.renderRecipeForm(w, r, http.StatusOK, recipeFormPage{
		Heading: "Save Generated Recipe",
		Action:  "/ai-create/",
		Fields: inbound.RecipeFields{
			Title:       draft.Title,
			Ingredients: draft.Ingredients,
			Steps:       draft.Steps,
		},
		IsAIGenerated: true,
	}, nil)
}

func (h *WebHandlers) createFromDraft(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	fields, err := parseRecipeFields(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.recipes.CreateRecipe(r.Context(), p.UserID, inbound.CreateRecipeCommand{
		RecipeFields:  fields,
		IsAIGenerated: true,
	})
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.renderRecipeForm(w, r, http.StatusBadRequest, recipeFormPage{
				Heading:       "Save Generated Recipe",
				Action:        "/ai-create/",
				Fields:        fields,
				IsAIGenerated: true,
			}, fieldErrs)
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.assistant.DiscardDraft(r.Context(), p.TokenID); err != nil {
		h.logger.Warn("Failed to discard assistant draft", zap.Error(err))
	}

	redirectWithFlash(w, r, "/"+dto.ID.String()+"/", FlashSuccess, "Recipe saved from the assistant.")
}
