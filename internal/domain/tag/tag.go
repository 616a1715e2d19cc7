// Package tag defines recipe tags. Tags are shared by all users.
package tag

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxNameLength = 50

var (
	ErrNameRequired = errors.New("tag name is required")
	ErrNameTooLong  = errors.New("tag name must not exceed 50 characters")
	ErrTagNotFound  = errors.New("tag not found")
)

// DefaultNames are seeded at startup
var DefaultNames = []string{
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Quick",
	"One-Pot",
	"Make Ahead",
	"Freezer-Friendly",
	"Kid-Friendly",
	"Family Favourite",
	"Dinner Party",
	"Weeknight Dinner",
}

// Tag is a unique, named label
type Tag struct {
	ID   uuid.UUID
	Name string
}

// New validates the name and returns a tag with a fresh id
func New(name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Tag{}, ErrNameTooLong
	}
	return Tag{ID: uuid.New(), Name: name}, nil
}

func (t Tag) String() string {
	return t.Name
}
