package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired       = errors.New("recipe title is required")
	ErrTitleTooLong        = errors.New("recipe title must not exceed 200 characters")
	ErrAuthorTooLong       = errors.New("recipe author must not exceed 100 characters")
	ErrIngredientsRequired = errors.New("recipe ingredients are required")
	ErrStepsRequired       = errors.New("recipe steps are required")
	ErrOwnerRequired       = errors.New("recipe must belong to a user")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNotRecipeOwner = errors.New("only recipe owner can perform this action")
)
