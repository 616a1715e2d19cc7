// Package preference records how much each family member likes a recipe.
package preference

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxMemberNameLength = 100

var (
	ErrMemberRequired = errors.New("family member name is required")
	ErrMemberTooLong  = errors.New("family member name must not exceed 100 characters")
	ErrInvalidLevel   = errors.New("preference must be 1 (dislike), 2 (neutral) or 3 (like)")
	ErrOwnerRequired  = errors.New("preference must belong to a user")
	ErrRecipeRequired = errors.New("preference recipe is required")
)

// Level is a family member's liking for a recipe
type Level int

const (
	Dislike Level = 1
	Neutral Level = 2
	Like    Level = 3
)

// Levels lists the choices in display order
var Levels = []Level{Dislike, Neutral, Like}

// Valid reports whether the level is one of the known choices
func (l Level) Valid() bool {
	return l >= Dislike && l <= Like
}

func (l Level) String() string {
	switch l {
	case Dislike:
		return "Dislike"
	case Neutral:
		return "Neutral"
	case Like:
		return "Like"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// FamilyPreference is one member's level for one recipe. There is at most
// one per (member, recipe, owner).
type FamilyPreference struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	memberName  string
	recipeID    uuid.UUID
	recipeTitle string
	level       Level
	updatedAt   time.Time
}

// New validates and creates a preference
func New(ownerID uuid.UUID, memberName string, recipeID uuid.UUID, recipeTitle string, level Level) (*FamilyPreference, error) {
	memberName = strings.TrimSpace(memberName)
	switch {
	case ownerID == uuid.Nil:
		return nil, ErrOwnerRequired
	case recipeID == uuid.Nil:
		return nil, ErrRecipeRequired
	}
	if err := ValidateMember(memberName); err != nil {
		return nil, err
	}
	if !level.Valid() {
		return nil, ErrInvalidLevel
	}

	return &FamilyPreference{
		id:          uuid.New(),
		ownerID:     ownerID,
		memberName:  memberName,
		recipeID:    recipeID,
		recipeTitle: recipeTitle,
		level:       level,
		updatedAt:   time.Now(),
	}, nil
}

// Reconstitute rebuilds a preference from storage
func Reconstitute(id, ownerID uuid.UUID, memberName string, recipeID uuid.UUID, recipeTitle string, level Level, updatedAt time.Time) *FamilyPreference {
	return &FamilyPreference{
		id:          id,
		ownerID:     ownerID,
		memberName:  memberName,
		recipeID:    recipeID,
		recipeTitle: recipeTitle,
		level:       level,
		updatedAt:   updatedAt,
	}
}

func (p *FamilyPreference) ID() uuid.UUID        { return p.id }
func (p *FamilyPreference) OwnerID() uuid.UUID   { return p.ownerID }
func (p *FamilyPreference) MemberName() string   { return p.memberName }
func (p *FamilyPreference) RecipeID() uuid.UUID  { return p.recipeID }
func (p *FamilyPreference) RecipeTitle() string  { return p.recipeTitle }
func (p *FamilyPreference) Level() Level         { return p.level }
func (p *FamilyPreference) UpdatedAt() time.Time { return p.updatedAt }

// ChangeLevel updates the level in place, used by upserts
func (p *FamilyPreference) ChangeLevel(level Level) error {
	if !level.Valid() {
		return ErrInvalidLevel
	}
	p.level = level
	p.updatedAt = time.Now()
	return nil
}

// String renders e.g. "Bob - Pasta: Dislike"
func (p *FamilyPreference) String() string {
	return fmt.Sprintf("%s - %s: %s", p.memberName, p.recipeTitle, p.level)
}

// ValidateMember checks a family member name
func ValidateMember(name string) error {
	if name == "" {
		return ErrMemberRequired
	}
	if utf8.RuneCountInString(name) > MaxMemberNameLength {
		return ErrMemberTooLong
	}
	return nil
}
