package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
)

type mealPlanFormPage struct {
	Date      string
	MealType  string
	RecipeID  uuid.UUID
	Recipes   []inbound.RecipeDTO
	MealTypes []mealplan.MealType
}

func (h *WebHandlers) mealPlanList(w http.ResponseWriter, r *http.Request) {
	plans, err := h.mealPlans.ListMealPlans(r.Context(), principal(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "mealplan_list", PageData{Title: "Meal Plan", Data: plans})
}

func (h *WebHandlers) newMealPlanPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := mealPlanFormPage{
		Date:     q.Get("date"),
		MealType: q.Get("meal_type"),
	}
	if id, err := uuid.Parse(q.Get("recipe")); err == nil {
		data.RecipeID = id
	}

	h.renderMealPlanForm(w, r, http.StatusOK, data, nil)
}

func (h *WebHandlers) createMealPlan(w http.ResponseWriter, r *http.Request) {
	data := mealPlanFormPage{
		Date:     strings.TrimSpace(r.PostFormValue("date")),
		MealType: r.PostFormValue("meal_type"),
	}
	if id, err := uuid.Parse(r.PostFormValue("recipe")); err == nil {
		data.RecipeID = id
	}

	plan, err := h.mealPlans.CreateMealPlan(r.Context(), principal(r).UserID, inbound.CreateMealPlanCommand{
		Date:     data.Date,
		MealType: data.MealType,
		RecipeID: data.RecipeID,
	})
	if err != nil {
		if fieldErrs, ok := formErrors(err); ok {
			h.renderMealPlanForm(w, r, http.StatusBadRequest, data, fieldErrs)
			return
		}
		if errors.Is(err, errors.CodeRecipeNotFound) {
			h.renderMealPlanForm(w, r, http.StatusBadRequest, data, map[string]string{
				"recipe_id": "Select a valid choice.",
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/meal-plan/", FlashSuccess, "Planned "+plan.Display)
}

func (h *WebHandlers) deleteMealPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.mealPlans.DeleteMealPlan(r.Context(), principal(r).UserID, id); err != nil {
		h.fail(w, r, err)
		return
	}

	redirectWithFlash(w, r, safeNext(r.PostFormValue("next"), "/meal-plan/"), FlashSuccess, "Meal removed from the plan.")
}

func (h *WebHandlers) weekView(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("week"))

	week, err := h.mealPlans.WeekView(r.Context(), principal(r).UserID, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "mealplan_week", PageData{Title: "Weekly Meal Plan", Data: week})
}

func (h *WebHandlers) renderMealPlanForm(w http.ResponseWriter, r *http.Request, status int, data mealPlanFormPage, fieldErrs map[string]string) {
	recipes, err := h.allRecipes(r.Context(), principal(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.Recipes = recipes
	data.MealTypes = mealplan.MealTypes

	h.render(w, r, status, "mealplan_form", PageData{
		Title:  "Plan a Meal",
		Errors: fieldErrs,
		Data:   data,
	})
}
