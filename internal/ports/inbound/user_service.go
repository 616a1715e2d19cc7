package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserService defines account use cases
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)
	Authenticate(ctx context.Context, cmd LoginCommand) (*UserDTO, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

// RegisterCommand creates an account
type RegisterCommand struct {
	Username        string `json:"username" form:"username" validate:"required,max=150,username"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	Password        string `json:"password" form:"password1" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" form:"password2" validate:"required,eqfield=Password"`
}

// LoginCommand carries credentials
type LoginCommand struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserDTO is the public view of an account
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
