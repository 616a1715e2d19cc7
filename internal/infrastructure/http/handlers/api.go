package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	recipes     inbound.RecipeService
	mealPlans   inbound.MealPlanService
	preferences inbound.PreferenceService
	users       inbound.UserService
	assistant   inbound.AssistantService
	auth        *security.AuthService
	logger      *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	recipes inbound.RecipeService,
	mealPlans inbound.MealPlanService,
	preferences inbound.PreferenceService,
	users inbound.UserService,
	assistant inbound.AssistantService,
	auth *security.AuthService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		recipes:     recipes,
		mealPlans:   mealPlans,
		preferences: preferences,
		users:       users,
		assistant:   assistant,
		auth:        auth,
		logger:      logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// LoginResponse carries the bearer token for API clients
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *inbound.UserDTO `json:"user"`
}

// ShoppingListRequest selects the recipes to shop for
type ShoppingListRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
}

// RegisterRoutes mounts the API on group. authenticate guards every route
// except registration and login.
func (h *APIHandlers) RegisterRoutes(group *gin.RouterGroup, authenticate gin.HandlerFunc) {
	auth := group.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", authenticate, h.Logout)

	protected := group.Group("", authenticate)

	protected.GET("/recipes", h.ListRecipes)
	protected.POST("/recipes", h.CreateRecipe)
	protected.GET("/recipes/:id", h.GetRecipe)
	protected.PUT("/recipes/:id", h.UpdateRecipe)
	protected.DELETE("/recipes/:id", h.DeleteRecipe)
	protected.POST("/recipes/:id/favourite", h.ToggleFavourite)
	protected.PUT("/recipes/:id/preferences", h.SetPreference)
	protected.POST("/shopping-list", h.ShoppingList)

	protected.GET("/meal-plans", h.ListMealPlans)
	protected.POST("/meal-plans", h.CreateMealPlan)
	protected.GET("/meal-plans/week", h.WeekView)
	protected.DELETE("/meal-plans/:id", h.DeleteMealPlan)

	protected.POST("/assistant/generate", h.Generate)
	protected.POST("/assistant/surprise", h.Surprise)
	protected.POST("/assistant/parse", h.Parse)

	protected.GET("/tags", h.ListTags)
}

// Register handles POST /api/v1/auth/register
func (h *APIHandlers) Register(c *gin.Context) {
	var cmd inbound.RegisterCommand
	if !h.bind(c, &cmd) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusCreated, APIResponse{Success: true, Data: user, Message: "User registered successfully"})
}

// Login handles POST /api/v1/auth/login
func (h *APIHandlers) Login(c *gin.Context) {
	var cmd inbound.LoginCommand
	if !h.bind(c, &cmd) {
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, claims, err := h.auth.IssueSessionToken(user.ID, user.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{
		Success: true,
		Data:    LoginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user},
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *APIHandlers) Logout(c *gin.Context) {
	p := middleware.PrincipalFromGin(c)
	if err := h.auth.RevokeToken(c.Request.Context(), p.Claims()); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Message: "Logged out"})
}

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(c *gin.Context) {
	filter := inbound.RecipeFilter{
		Query:          strings.TrimSpace(c.Query("q")),
		FavouritesOnly: c.Query("favourites") == "1" || c.Query("favourites") == "true",
		Member:         strings.TrimSpace(c.Query("member")),
		Page:           1,
	}
	if raw := c.Query("tag"); raw != "" {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(c, errors.NewValidationError("tag must be a uuid").WithField("tag", "Invalid tag id."))
			return
		}
		filter.TagID = &tagID
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}

	list, err := h.recipes.ListRecipes(c.Request.Context(), h.userID(c), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: list})
}

// CreateRecipe handles POST /api/v1/recipes
func (h *APIHandlers) CreateRecipe(c *gin.Context) {
	var cmd inbound.CreateRecipeCommand
	if !h.bind(c, &cmd) {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), h.userID(c), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusCreated, APIResponse{Success: true, Data: recipe, Message: "Recipe created successfully"})
}

// GetRecipe handles GET /api/v1/recipes/:id
func (h *APIHandlers) GetRecipe(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), h.userID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: recipe})
}

// UpdateRecipe handles PUT /api/v1/recipes/:id
func (h *APIHandlers) UpdateRecipe(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var cmd inbound.UpdateRecipeCommand
	if !h.bind(c, &cmd) {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), h.userID(c), id, cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: recipe, Message: "Recipe updated successfully"})
}

// DeleteRecipe handles DELETE /api/v1/recipes/:id
func (h *APIHandlers) DeleteRecipe(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), h.userID(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Message: "Recipe deleted successfully"})
}

// ToggleFavourite handles POST /api/v1/recipes/:id/favourite
func (h *APIHandlers) ToggleFavourite(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	favourite, err := h.recipes.ToggleFavourite(c.Request.Context(), h.userID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: gin.H{"is_favourite": favourite}})
}

// SetPreference handles PUT /api/v1/recipes/:id/preferences
func (h *APIHandlers) SetPreference(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var cmd inbound.SetPreferenceCommand
	if !h.bind(c, &cmd) {
		return
	}

	pref, err := h.preferences.SetPreference(c.Request.Context(), h.userID(c), id, cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: pref})
}

// ShoppingList handles POST /api/v1/shopping-list
func (h *APIHandlers) ShoppingList(c *gin.Context) {
	var req ShoppingListRequest
	if !h.bind(c, &req) {
		return
	}

	list, err := h.recipes.ShoppingList(c.Request.Context(), h.userID(c), req.RecipeIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: list})
}

// ListMealPlans handles GET /api/v1/meal-plans
func (h *APIHandlers) ListMealPlans(c *gin.Context) {
	plans, err := h.mealPlans.ListMealPlans(c.Request.Context(), h.userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: plans})
}

// CreateMealPlan handles POST /api/v1/meal-plans
func (h *APIHandlers) CreateMealPlan(c *gin.Context) {
	var cmd inbound.CreateMealPlanCommand
	if !h.bind(c, &cmd) {
		return
	}

	plan, err := h.mealPlans.CreateMealPlan(c.Request.Context(), h.userID(c), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusCreated, APIResponse{Success: true, Data: plan})
}

// WeekView handles GET /api/v1/meal-plans/week
func (h *APIHandlers) WeekView(c *gin.Context) {
	offset := 0
	if raw := c.Query("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(c, errors.NewValidationError("week must be an integer").WithField("week", "Enter a whole number."))
			return
		}
		offset = n
	}

	week, err := h.mealPlans.WeekView(c.Request.Context(), h.userID(c), offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: week})
}

// DeleteMealPlan handles DELETE /api/v1/meal-plans/:id
func (h *APIHandlers) DeleteMealPlan(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}

	if err := h.mealPlans.DeleteMealPlan(c.Request.Context(), h.userID(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Message: "Meal plan deleted successfully"})
}

// Generate handles POST /api/v1/assistant/generate
func (h *APIHandlers) Generate(c *gin.Context) {
	var cmd inbound.GenerateRecipeCommand
	if !h.bind(c, &cmd) {
		return
	}

	result, err := h.assistant.Generate(c.Request.Context(), h.userID(c), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: result})
}

// Surprise handles POST /api/v1/assistant/surprise
func (h *APIHandlers) Surprise(c *gin.Context) {
	result, err := h.assistant.Surprise(c.Request.Context(), h.userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: result})
}

// Parse handles POST /api/v1/assistant/parse
func (h *APIHandlers) Parse(c *gin.Context) {
	var cmd inbound.ParseCommand
	if !h.bind(c, &cmd) {
		return
	}
	if err := inbound.Validate(cmd); err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: h.assistant.Parse(cmd.Text)})
}

// ListTags handles GET /api/v1/tags
func (h *APIHandlers) ListTags(c *gin.Context) {
	tags, err := h.recipes.ListTags(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeJSON(c, http.StatusOK, APIResponse{Success: true, Data: tags})
}

func (h *APIHandlers) userID(c *gin.Context) uuid.UUID {
	if p := middleware.PrincipalFromGin(c); p != nil {
		return p.UserID
	}
	return uuid.Nil
}

func (h *APIHandlers) paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeError(c, errors.NewNotFoundError(""))
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes the JSON body. Field validation is left to the services.
func (h *APIHandlers) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.writeError(c, errors.NewBadRequestError("Malformed JSON body").WithCause(err))
		return false
	}
	return true
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(c *gin.Context, status int, response APIResponse) {
	c.JSON(status, response)
}

// writeError maps err onto the response envelope. Errors that are not
// AppErrors are reported as internal errors without their details.
func (h *APIHandlers) writeError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError("").WithCause(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("API request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error:   string(appErr.Code),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}
