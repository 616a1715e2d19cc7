package gorm

import (
	"context"
	"errors"

	"github.com/alchemorsel/recipebox/internal/domain/tag"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagRepository implements the tag repository interface using GORM
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

var _ outbound.TagRepository = (*TagRepository)(nil)

// List returns every tag ordered by name
func (r *TagRepository) List(ctx context.Context) ([]tag.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toTags(models), nil
}

// FindByIDs returns the tags among ids that exist
func (r *TagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tag.Tag, error) {
	if len(ids) == 0 {
		return []tag.Tag{}, nil
	}

	var models []TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toTags(models), nil
}

// FindByName finds a tag by its exact name
func (r *TagRepository) FindByName(ctx context.Context, name string) (*tag.Tag, error) {
	var model TagModel
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, tag.ErrTagNotFound
		}
		return nil, result.Error
	}
	t := ModelToTag(model)
	return &t, nil
}

// Create stores a new tag
func (r *TagRepository) Create(ctx context.Context, t tag.Tag) error {
	model := TagToModel(t)
	return r.db.WithContext(ctx).Create(&model).Error
}

func toTags(models []TagModel) []tag.Tag {
	tags := make([]tag.Tag, len(models))
	for i, m := range models {
		tags[i] = ModelToTag(m)
	}
	return tags
}
