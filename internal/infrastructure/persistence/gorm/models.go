// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// TableName sets the table name
func (UserModel) TableName() string {
	return "users"
}

// TagModel represents the GORM model for tags
type TagModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(50);uniqueIndex;not null"`
}

// TableName sets the table name
func (TagModel) TableName() string {
	return "tags"
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Title       string    `gorm:"type:varchar(200);not null;index"`
	Author      string    `gorm:"type:varchar(100)"`
	Description string    `gorm:"type:text"`
	Ingredients string    `gorm:"type:text;not null"`
	Steps       string    `gorm:"type:text;not null"`
	Notes       string    `gorm:"type:text"`
	AIGenerated bool      `gorm:"column:is_ai_generated;default:false"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	// Relationships
	Tags []TagModel `gorm:"many2many:recipe_tags;joinForeignKey:RecipeID;joinReferences:TagID"`
}

// TableName sets the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// FavouriteModel marks a recipe as one of a user's favourites
type FavouriteModel struct {
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time
}

// TableName sets the table name
func (FavouriteModel) TableName() string {
	return "recipe_favourites"
}

// MealPlanModel represents the GORM model for meal plan entries
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index:idx_meal_plans_user_date"`
	Date      time.Time `gorm:"type:date;not null;index:idx_meal_plans_user_date"`
	MealType  string    `gorm:"type:varchar(10);not null"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time

	// Relationships
	Recipe RecipeModel `gorm:"foreignKey:RecipeID"`
}

// TableName sets the table name
func (MealPlanModel) TableName() string {
	return "meal_plans"
}

// PreferenceModel represents the GORM model for family preferences
type PreferenceModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	MemberName string    `gorm:"column:family_member_name;type:varchar(100);not null;uniqueIndex:idx_preference_member_recipe_user"`
	RecipeID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_preference_member_recipe_user"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_preference_member_recipe_user;index"`
	Preference int       `gorm:"not null"`
	UpdatedAt  time.Time

	// Relationships
	Recipe RecipeModel `gorm:"foreignKey:RecipeID"`
}

// TableName sets the table name
func (PreferenceModel) TableName() string {
	return "family_preferences"
}

// AllModels returns every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&TagModel{},
		&RecipeModel{},
		&FavouriteModel{},
		&MealPlanModel{},
		&PreferenceModel{},
	}
}
