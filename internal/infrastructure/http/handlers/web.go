// Package handlers provides the HTML and JSON request handlers
package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebHandlers serves the HTML application
type WebHandlers struct {
	recipes     inbound.RecipeService
	mealPlans   inbound.MealPlanService
	preferences inbound.PreferenceService
	users       inbound.UserService
	assistant   inbound.AssistantService
	auth        *security.AuthService
	renderer    *Renderer
	logger      *zap.Logger
}

// NewWebHandlers creates the HTML handlers
func NewWebHandlers(
	recipes inbound.RecipeService,
	mealPlans inbound.MealPlanService,
	preferences inbound.PreferenceService,
	users inbound.UserService,
	assistant inbound.AssistantService,
	auth *security.AuthService,
	renderer *Renderer,
	logger *zap.Logger,
) *WebHandlers {
	return &WebHandlers{
		recipes:     recipes,
		mealPlans:   mealPlans,
		preferences: preferences,
		users:       users,
		assistant:   assistant,
		auth:        auth,
		renderer:    renderer,
		logger:      logger.Named("web"),
	}
}

// Routes mounts the application pages. The router is expected to run the
// Authenticate and CSRF middleware already.
func (h *WebHandlers) Routes(r chi.Router) {
	r.Get("/register/", h.registerPage)
	r.Post("/register/", h.register)
	r.Get("/login/", h.loginPage)
	r.Post("/login/", h.login)

	r.Get("/privacy/", h.staticPage("privacy", "Privacy Policy"))
	r.Get("/terms/", h.staticPage("terms", "Terms of Service"))
	r.Get("/disclaimer/", h.staticPage("disclaimer", "Disclaimer"))
	r.Get("/getting-started/", h.staticPage("getting_started", "Getting Started"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/logout/", h.logout)

		r.Get("/", h.recipeList)
		r.Get("/new/", h.newRecipePage)
		r.Post("/new/", h.createRecipe)
		r.Get("/shopping-list/", h.shoppingList)

		r.Get("/ai-generate/", h.generatePage)
		r.Post("/ai-generate/", h.generate)
		r.Post("/ai/surprise", h.surprise)
		r.Get("/ai-create/", h.createFromDraftPage)
		r.Post("/ai-create/", h.createFromDraft)

		r.Get("/meal-plan/", h.mealPlanList)
		r.Get("/meal-plan/new/", h.newMealPlanPage)
		r.Post("/meal-plan/new/", h.createMealPlan)
		r.Get("/meal-plan/week/", h.weekView)
		r.Post("/meal-plan/{id}/delete/", h.deleteMealPlan)

		r.Get("/{id}/", h.recipeDetail)
		r.Get("/{id}/update/", h.editRecipePage)
		r.Post("/{id}/update/", h.updateRecipe)
		r.Get("/{id}/delete/", h.deleteRecipePage)
		r.Post("/{id}/delete/", h.deleteRecipe)
		r.Post("/{id}/rate/", h.rateRecipe)
		r.Post("/{id}/favourite/", h.toggleFavourite)
	})
}

// NotFound renders the not found page
func (h *WebHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "error", PageData{
		Title: "Page not found",
		Data:  errorPage{Status: http.StatusNotFound, Message: "The page you requested does not exist."},
	})
}

type errorPage struct {
	Status  int
	Message string
}

func (h *WebHandlers) staticPage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, PageData{Title: title})
	}
}

// render fills the per-request fields of data and writes the page
func (h *WebHandlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	data.User = middleware.PrincipalFrom(r.Context())
	if data.User != nil {
		token, err := h.auth.IssueCSRFToken(data.User.TokenID)
		if err != nil {
			h.logger.Error("Failed to issue CSRF token", zap.Error(err))
		}
		data.CSRFToken = token
	}
	if data.Flash == nil {
		data.Flash = popFlash(w, r)
	}
	h.renderer.Render(w, status, name, data)
}

// fail renders an error page for err. Unexpected errors are logged and
// shown as a generic 500.
func (h *WebHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		status = appErr.StatusCode()
		if status < http.StatusInternalServerError || status == http.StatusBadGateway || status == http.StatusServiceUnavailable {
			message = appErr.Message
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	h.render(w, r, status, "error", PageData{
		Title: http.StatusText(status),
		Data:  errorPage{Status: status, Message: message},
	})
}

// formErrors returns the per-field messages of a validation error. ok is
// false when err should not be shown on the form.
func formErrors(err error) (map[string]string, bool) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return nil, false
	}

	switch appErr.Code {
	case errors.CodeValidationFailed:
		fields := make(map[string]string, len(appErr.Fields)+1)
		for k, v := range appErr.Fields {
			fields[k] = v
		}
		if len(fields) == 0 {
			fields["form"] = appErr.Details
		}
		return fields, true
	case errors.CodeUserExists:
		return map[string]string{"username": "A user with that username already exists."}, true
	case errors.CodeInvalidCredentials:
		return map[string]string{"form": "Please enter a correct username and password."}, true
	}
	return nil, false
}

// assistantFailure reports whether err is an assistant outage to show as a
// flash message instead of an error page
func assistantFailure(err error) bool {
	return errors.Is(err, errors.CodeExternalServiceError) || errors.Is(err, errors.CodeAIUnavailable)
}

func principal(r *http.Request) *middleware.Principal {
	return middleware.PrincipalFrom(r.Context())
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// safeNext returns next when it is a local path, otherwise fallback
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, level, message string) {
	setFlash(w, level, message)
	http.Redirect(w, r, to, http.StatusFound)
}
