// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/alchemorsel/recipebox/internal/domain/preference"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	ownerID     uuid.UUID
	content     recipe.Content
	aiGenerated bool
	tags        []recipe.TagRef
}

// NewRecipeBuilder creates a new recipe builder with fake but valid values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	ingredients := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		ingredients = append(ingredients, fmt.Sprintf("%d %s", faker.Number(1, 5), faker.Vegetable()))
	}

	return &RecipeBuilder{
		ownerID: uuid.New(),
		content: recipe.Content{
			Title:       faker.Dinner(),
			Author:      faker.Name(),
			Description: faker.Sentence(8),
			Ingredients: strings.Join(ingredients, "\n"),
			Steps:       "1. " + faker.Sentence(6) + "\n2. " + faker.Sentence(6),
		},
	}
}

// WithOwner sets the owning user
func (rb *RecipeBuilder) WithOwner(ownerID uuid.UUID) *RecipeBuilder {
	rb.ownerID = ownerID
	return rb
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.content.Title = title
	return rb
}

// WithIngredients sets the ingredient lines
func (rb *RecipeBuilder) WithIngredients(lines ...string) *RecipeBuilder {
	rb.content.Ingredients = strings.Join(lines, "\n")
	return rb
}

// WithSteps sets the steps text
func (rb *RecipeBuilder) WithSteps(steps string) *RecipeBuilder {
	rb.content.Steps = steps
	return rb
}

// WithTags attaches tags
func (rb *RecipeBuilder) WithTags(tags ...recipe.TagRef) *RecipeBuilder {
	rb.tags = tags
	return rb
}

// AsAIGenerated marks the recipe as drafted by the assistant
func (rb *RecipeBuilder) AsAIGenerated() *RecipeBuilder {
	rb.aiGenerated = true
	return rb
}

// Build constructs the recipe with validation
func (rb *RecipeBuilder) Build() (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(rb.ownerID, rb.content, rb.aiGenerated)
	if err != nil {
		return nil, err
	}
	r.SetTags(rb.tags)
	// Builders hand out clean aggregates
	r.Events()
	return r, nil
}

// MustBuild is Build that panics on invalid input
func (rb *RecipeBuilder) MustBuild() *recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// UserBuilder provides a fluent interface for building test users
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new user builder with fake values
func NewUserBuilder() *UserBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	return &UserBuilder{
		username: strings.ToLower(faker.Username()) + fmt.Sprint(faker.Number(100, 999)),
		email:    faker.Email(),
		password: "testpass123",
	}
}

// WithUsername sets the username
func (ub *UserBuilder) WithUsername(username string) *UserBuilder {
	ub.username = username
	return ub
}

// WithPassword sets the plain-text password
func (ub *UserBuilder) WithPassword(password string) *UserBuilder {
	ub.password = password
	return ub
}

// MustBuild creates the user with the cheapest bcrypt cost
func (ub *UserBuilder) MustBuild() *user.User {
	u, err := user.NewUser(ub.username, ub.email, ub.password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u.Events()
	return u
}

// NewMealPlan creates a plan for the recipe on the given ISO date
func NewMealPlan(r *recipe.Recipe, date string, mealType mealplan.MealType) *mealplan.MealPlan {
	day, err := time.Parse(mealplan.DateLayout, date)
	if err != nil {
		panic(err)
	}
	p, err := mealplan.New(r.OwnerID(), day, mealType, r.ID(), r.Title())
	if err != nil {
		panic(err)
	}
	return p
}

// NewPreference creates a family preference for the recipe
func NewPreference(r *recipe.Recipe, member string, level preference.Level) *preference.FamilyPreference {
	p, err := preference.New(r.OwnerID(), member, r.ID(), r.Title(), level)
	if err != nil {
		panic(err)
	}
	return p
}
