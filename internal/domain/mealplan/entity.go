// Package mealplan schedules recipes into breakfast, lunch and dinner slots.
package mealplan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO date format used for plan dates
const DateLayout = "2006-01-02"

var (
	ErrInvalidMealType  = errors.New("meal type must be breakfast, lunch or dinner")
	ErrDateRequired     = errors.New("meal plan date is required")
	ErrRecipeRequired   = errors.New("meal plan recipe is required")
	ErrOwnerRequired    = errors.New("meal plan must belong to a user")
	ErrMealPlanNotFound = errors.New("meal plan not found")
)

// MealType is a meal slot within a day
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the slots in display order
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType validates a meal type string
func ParseMealType(s string) (MealType, error) {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", ErrInvalidMealType
	}
	return mt, nil
}

// Valid reports whether the meal type is one of the known slots
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

// Label is the capitalised display name
func (m MealType) Label() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Order is the slot's position within a day, used for sorting
func (m MealType) Order() int {
	for i, mt := range MealTypes {
		if mt == m {
			return i
		}
	}
	return len(MealTypes)
}

// MealPlan assigns a recipe to a date and meal slot for a user
type MealPlan struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	date        time.Time
	mealType    MealType
	recipeID    uuid.UUID
	recipeTitle string
}

// New creates a meal plan entry. The date is truncated to the calendar day.
func New(ownerID uuid.UUID, date time.Time, mealType MealType, recipeID uuid.UUID, recipeTitle string) (*MealPlan, error) {
	switch {
	case ownerID == uuid.Nil:
		return nil, ErrOwnerRequired
	case date.IsZero():
		return nil, ErrDateRequired
	case !mealType.Valid():
		return nil, ErrInvalidMealType
	case recipeID == uuid.Nil:
		return nil, ErrRecipeRequired
	}

	return &MealPlan{
		id:          uuid.New(),
		ownerID:     ownerID,
		date:        Day(date),
		mealType:    mealType,
		recipeID:    recipeID,
		recipeTitle: recipeTitle,
	}, nil
}

// Reconstitute rebuilds a meal plan from storage
func Reconstitute(id, ownerID uuid.UUID, date time.Time, mealType MealType, recipeID uuid.UUID, recipeTitle string) *MealPlan {
	return &MealPlan{
		id:          id,
		ownerID:     ownerID,
		date:        Day(date),
		mealType:    mealType,
		recipeID:    recipeID,
		recipeTitle: recipeTitle,
	}
}

func (p *MealPlan) ID() uuid.UUID       { return p.id }
func (p *MealPlan) OwnerID() uuid.UUID  { return p.ownerID }
func (p *MealPlan) Date() time.Time     { return p.date }
func (p *MealPlan) MealType() MealType  { return p.mealType }
func (p *MealPlan) RecipeID() uuid.UUID { return p.recipeID }
func (p *MealPlan) RecipeTitle() string { return p.recipeTitle }

// IsOwnedBy reports whether userID owns the plan
func (p *MealPlan) IsOwnedBy(userID uuid.UUID) bool {
	return p.ownerID == userID
}

// String renders e.g. "Dinner on 2023-12-25: Pasta"
func (p *MealPlan) String() string {
	return fmt.Sprintf("%s on %s: %s", p.mealType.Label(), p.date.Format(DateLayout), p.recipeTitle)
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
