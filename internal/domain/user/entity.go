// Package user defines the user domain entity
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	// bcrypt rejects longer input
	MaxPasswordLength = 72
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username must not exceed 150 characters")
	ErrUsernameInvalid  = errors.New("username may contain only letters, digits and @/./+/-/_ characters")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

// User represents a registered account. All recipes, meal plans and family
// preferences hang off a user.
type User struct {
	shared.AggregateRoot

	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	createdAt    time.Time
	lastLoginAt  *time.Time
}

// NewUser creates a new user with validation, hashing the password with the
// given bcrypt cost.
func NewUser(username, email, password string, cost int) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	u := &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: string(hashed),
		createdAt:    now,
	}
	u.AddEvent(UserRegisteredEvent{UserID: u.id, Username: username, RegisteredAt: now})
	return u, nil
}

// Reconstitute rebuilds a user from storage
func Reconstitute(id uuid.UUID, username, email, passwordHash string, createdAt time.Time, lastLoginAt *time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		createdAt:    createdAt,
		lastLoginAt:  lastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Username returns the login name
func (u *User) Username() string {
	return u.username
}

// Email returns the user's email, which may be empty
func (u *User) Email() string {
	return u.email
}

// PasswordHash returns the bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// LastLoginAt returns when the user last logged in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// RecordLogin records a login timestamp
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
}

// ValidateUsername applies the username rules
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return ErrUsernameRequired
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return ErrUsernameTooLong
	case !usernamePattern.MatchString(username):
		return ErrUsernameInvalid
	}
	return nil
}

// ValidatePassword applies the password length rules. The upper bound
// is measured in bytes.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !strings.Contains(email, "@") || len(email) > 254 {
		return ErrEmailInvalid
	}
	return nil
}

// UserRegisteredEvent is raised when a new account is created
type UserRegisteredEvent struct {
	UserID       uuid.UUID
	Username     string
	RegisteredAt time.Time
}

func (e UserRegisteredEvent) EventName() string {
	return "user.registered"
}

func (e UserRegisteredEvent) OccurredAt() time.Time {
	return e.RegisteredAt
}
