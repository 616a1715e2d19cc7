package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type recipeListPage struct {
	List       *inbound.RecipeList
	Tags       []inbound.TagDTO
	Members    []string
	Query      string
	TagID      string
	Favourites bool
	Member     string
	PrevURL    string
	NextURL    string
}

type recipeFormPage struct {
	Heading       string
	Action        string
	RecipeID      uuid.UUID
	Fields        inbound.RecipeFields
	Tags          []inbound.TagDTO
	IsAIGenerated bool
}

type recipeDetailPage struct {
	Recipe  *inbound.RecipeDetailDTO
	Levels  []preference.Level
	Members []string
}

type shoppingListPage struct {
	List *inbound.ShoppingListDTO
}

func (h *WebHandlers) recipeList(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	q := r.URL.Query()

	filter := inbound.RecipeFilter{
		Query:          strings.TrimSpace(q.Get("q")),
		FavouritesOnly: q.Get("favourites") == "1",
		Member:         strings.TrimSpace(q.Get("member")),
		Page:           1,
	}
	if tagID, err := uuid.Parse(q.Get("tag")); err == nil {
		filter.TagID = &tagID
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}

	list, err := h.recipes.ListRecipes(r.Context(), p.UserID, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tags, err := h.recipes.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	members, err := h.preferences.Members(r.Context(), p.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := recipeListPage{
		List:       list,
		Tags:       tags,
		Members:    members,
		Query:      filter.Query,
		Favourites: filter.FavouritesOnly,
		Member:     filter.Member,
	}
	if filter.TagID != nil {
		data.TagID = filter.TagID.String()
	}
	if list.HasPrevious() {
		data.PrevURL = pageURL(q, list.Page-1)
	}
	if list.HasNext() {
		data.NextURL = pageURL(q, list.Page+1)
	}

	h.render(w, r, http.StatusOK, "recipe_list", PageData{Title: "My Recipes", Data: data})
}

func pageURL(q url.Values, page int) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("page", strconv.Itoa(page))
	return "/?" + next.Encode()
}

func (h *WebHandlers) newRecipePage(w http.ResponseWriter, r *http.Request) {
	h.renderRecipeForm(w, r, http.StatusOK, recipeFormPage{
		Heading: "New Recipe",
		Action:  "/new/",
	}, nil)
}

func (h *WebHandlers) createRecipe(w http.ResponseWriter, r *http.Request) {
	fields, err := parseRecipeFields(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.recipes.CreateRecipe(r.Context(), principal(r).UserID, inbound.CreateRecipeCommand{RecipeFields: fields})
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.renderRecipeForm(w, r, http.StatusBadRequest, recipeFormPage{
				Heading: "New Recipe",
				Action:  "/new/",
				Fields:  fields,
			}, fieldErrs)
			return
		}
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/"+dto.ID.String()+"/", FlashSuccess, "Recipe created.")
}

func (h *WebHandlers) recipeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p := principal(r)

	detail, err := h.recipes.GetRecipe(r.Context(), p.UserID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	members, err := h.preferences.Members(r.Context(), p.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "recipe_detail", PageData{
		Title: detail.Title,
		Data: recipeDetailPage{
			Recipe:  detail,
			Levels:  preference.Levels,
			Members: members,
		},
	})
}

func (h *WebHandlers) editRecipePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	detail, err := h.recipes.GetRecipe(r.Context(), principal(r).UserID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.renderRecipeForm(w, r, http.StatusOK, recipeFormPage{
		Heading:  "Edit Recipe",
		Action:   "/" + id.String() + "/update/",
		RecipeID: id,
		Fields: inbound.RecipeFields{
			Title:       detail.Title,
			Author:      detail.Author,
			Description: detail.Description,
			Ingredients: detail.Ingredients,
			Steps:       detail.Steps,
			Notes:       detail.Notes,
			TagIDs:      detail.TagIDs(),
		},
		IsAIGenerated: detail.IsAIGenerated,
	}, nil)
}

func (h *WebHandlers) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	fields, err := parseRecipeFields(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, err = h.recipes.UpdateRecipe(r.Context(), principal(r).UserID, id, inbound.UpdateRecipeCommand{RecipeFields: fields})
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.renderRecipeForm(w, r, http.StatusBadRequest, recipeFormPage{
				Heading:  "Edit Recipe",
				Action:   "/" + id.String() + "/update/",
				RecipeID: id,
				Fields:   fields,
			}, fieldErrs)
			return
		}
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/"+id.String()+"/", FlashSuccess, "Recipe updated.")
}

func (h *WebHandlers) deleteRecipePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	detail, err := h.recipes.GetRecipe(r.Context(), principal(r).UserID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "recipe_confirm_delete", PageData{Title: "Delete " + detail.Title, Data: detail})
}

func (h *WebHandlers) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), principal(r).UserID, id); err != nil {
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/", FlashSuccess, "Recipe deleted.")
}

func (h *WebHandlers) rateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	detailURL := "/" + id.String() + "/"

	level, _ := strconv.Atoi(r.PostFormValue("preference"))
	cmd := inbound.SetPreferenceCommand{
		MemberName: strings.TrimSpace(r.PostFormValue("family_member_name")),
		Level:      level,
	}

	pref, err := h.preferences.SetPreference(r.Context(), principal(r).UserID, id, cmd)
	if err != nil {
		if errors.Is(err, errors.CodeValidationFailed) {
			redirectWithFlash(w, r, detailURL, FlashError, "Enter a family member name and choose a preference.")
			return
		}
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, detailURL, FlashSuccess, "Saved preference: "+pref.Display)
}

func (h *WebHandlers) toggleFavourite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	favourite, err := h.recipes.ToggleFavourite(r.Context(), principal(r).UserID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := "Removed from favourites."
	if favourite {
		message = "Added to favourites."
	}
	redirectWithFlash(w, r, safeNext(r.PostFormValue("next"), "/"+id.String()+"/"), FlashSuccess, message)
}

func (h *WebHandlers) shoppingList(w http.ResponseWriter, r *http.Request) {
	ids := parseIDList(r.URL.Query()["recipe_ids"])

	list, err := h.recipes.ShoppingList(r.Context(), principal(r).UserID, ids)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "shopping_list", PageData{
		Title: "Shopping List",
		Data:  shoppingListPage{List: list},
	})
}

func (h *WebHandlers) renderRecipeForm(w http.ResponseWriter, r *http.Request, status int, data recipeFormPage, fieldErrs map[string]string) {
	tags, err := h.recipes.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.Tags = tags

	h.render(w, r, status, "recipe_form", PageData{
		Title:  data.Heading,
		Errors: fieldErrs,
		Data:   data,
	})
}

// allRecipes walks every page of the user's recipes
func (h *WebHandlers) allRecipes(ctx context.Context, userID uuid.UUID) ([]inbound.RecipeDTO, error) {
	var out []inbound.RecipeDTO
	for page := 1; ; page++ {
		list, err := h.recipes.ListRecipes(ctx, userID, inbound.RecipeFilter{Page: page})
		if err != nil {
			return nil, err
		}
		out = append(out, list.Items...)
		if !list.HasNext() {
			return out, nil
		}
	}
}

func parseRecipeFields(r *http.Request) (inbound.RecipeFields, error) {
	if err := r.ParseForm(); err != nil {
		return inbound.RecipeFields{}, errors.NewBadRequestError("Malformed form data")
	}

	return inbound.RecipeFields{
		Title:       strings.TrimSpace(r.PostForm.Get("title")),
		Author:      strings.TrimSpace(r.PostForm.Get("author")),
		Description: r.PostForm.Get("description"),
		Ingredients: r.PostForm.Get("ingredients"),
		Steps:       r.PostForm.Get("steps"),
		Notes:       r.PostForm.Get("notes"),
		TagIDs:      parseIDList(r.PostForm["tags"]),
	}, nil
}

// parseIDList accepts repeated values and comma separated lists, skipping
// anything that is not a uuid
func parseIDList(values []string) []uuid.UUID {
	var ids []uuid.UUID
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *WebHandlers) logAction(action string, userID uuid.UUID, fields ...zap.Field) {
	h.logger.Info(action, append([]zap.Field{zap.String("user_id", userID.String())}, fields...)...)
}
