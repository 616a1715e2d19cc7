// Package recipe contains the core domain logic for recipe management:
// the recipe aggregate, the generated-text parser and the shopping list
// aggregator.
package recipe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
)

// TagRef is the recipe's view of a tag it carries
type TagRef struct {
	ID   uuid.UUID
	Name string
}

// Content holds the user-editable fields of a recipe
type Content struct {
	Title       string
	Author      string
	Description string
	Ingredients string
	Steps       string
	Notes       string
}

// Recipe is a stored dish record owned by a user.
type Recipe struct {
	shared.AggregateRoot

	id      uuid.UUID
	ownerID uuid.UUID

	title       string
	author      string
	description string
	ingredients string
	steps       string
	notes       string

	aiGenerated bool
	tags        []TagRef

	createdAt time.Time
	updatedAt time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(ownerID uuid.UUID, content Content, aiGenerated bool) (*Recipe, error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	content = content.normalized()
	if err := content.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Recipe{
		id:          uuid.New(),
		ownerID:     ownerID,
		aiGenerated: aiGenerated,
		createdAt:   now,
		updatedAt:   now,
	}
	r.apply(content)

	r.AddEvent(RecipeCreatedEvent{
		RecipeID:      r.id,
		OwnerID:       ownerID,
		Title:         r.title,
		IsAIGenerated: aiGenerated,
		CreatedAt:     now,
	})

	return r, nil
}

// Snapshot is the persisted shape of a recipe, used to rebuild the aggregate
type Snapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Content     Content
	AIGenerated bool
	Tags        []TagRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reconstitute rebuilds a recipe from storage without validation or events
func Reconstitute(s Snapshot) *Recipe {
	r := &Recipe{
		id:          s.ID,
		ownerID:     s.OwnerID,
		aiGenerated: s.AIGenerated,
		tags:        s.Tags,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
	r.apply(s.Content)
	return r
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// OwnerID returns the id of the user the recipe belongs to
func (r *Recipe) OwnerID() uuid.UUID {
	return r.ownerID
}

func (r *Recipe) Title() string       { return r.title }
func (r *Recipe) Author() string      { return r.author }
func (r *Recipe) Description() string { return r.description }
func (r *Recipe) Ingredients() string { return r.ingredients }
func (r *Recipe) Steps() string       { return r.steps }
func (r *Recipe) Notes() string       { return r.notes }

// IsAIGenerated reports whether the recipe was drafted by the assistant
func (r *Recipe) IsAIGenerated() bool {
	return r.aiGenerated
}

// Tags returns the tags attached to the recipe
func (r *Recipe) Tags() []TagRef {
	return r.tags
}

// TagIDs returns the ids of the attached tags
func (r *Recipe) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.tags))
	for i, t := range r.tags {
		ids[i] = t.ID
	}
	return ids
}

func (r *Recipe) CreatedAt() time.Time { return r.createdAt }
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// Content returns the editable fields
func (r *Recipe) Content() Content {
	return Content{
		Title:       r.title,
		Author:      r.author,
		Description: r.description,
		Ingredients: r.ingredients,
		Steps:       r.steps,
		Notes:       r.notes,
	}
}

// IsOwnedBy reports whether userID owns the recipe
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.ownerID == userID
}

// Update replaces the editable fields of the recipe
func (r *Recipe) Update(content Content) error {
	content = content.normalized()
	if err := content.Validate(); err != nil {
		return err
	}

	oldTitle := r.title
	r.apply(content)
	r.updatedAt = time.Now()

	r.AddEvent(RecipeUpdatedEvent{
		RecipeID:  r.id,
		OldTitle:  oldTitle,
		NewTitle:  r.title,
		UpdatedAt: r.updatedAt,
	})
	return nil
}

// SetTags replaces the tag set, dropping duplicate ids
func (r *Recipe) SetTags(tags []TagRef) {
	seen := make(map[uuid.UUID]struct{}, len(tags))
	out := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	r.tags = out
}

// HasTag reports whether the recipe carries the given tag
func (r *Recipe) HasTag(tagID uuid.UUID) bool {
	for _, t := range r.tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// String returns the recipe title
func (r *Recipe) String() string {
	return r.title
}

func (r *Recipe) apply(c Content) {
	r.title = c.Title
	r.author = c.Author
	r.description = c.Description
	r.ingredients = c.Ingredients
	r.steps = c.Steps
	r.notes = c.Notes
}

// Validate checks the content against the recipe field rules
func (c Content) Validate() error {
	switch {
	case c.Title == "":
		return ErrTitleRequired
	case utf8.RuneCountInString(c.Title) > MaxTitleLength:
		return ErrTitleTooLong
	case utf8.RuneCountInString(c.Author) > MaxAuthorLength:
		return ErrAuthorTooLong
	case c.Ingredients == "":
		return ErrIngredientsRequired
	case c.Steps == "":
		return ErrStepsRequired
	}
	return nil
}

func (c Content) normalized() Content {
	return Content{
		Title:       strings.TrimSpace(c.Title),
		Author:      strings.TrimSpace(c.Author),
		Description: strings.TrimSpace(c.Description),
		Ingredients: strings.TrimSpace(c.Ingredients),
		Steps:       strings.TrimSpace(c.Steps),
		Notes:       strings.TrimSpace(c.Notes),
	}
}
