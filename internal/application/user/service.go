// Package user provides the application layer for user management
package user

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/shared"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StarterSeeder gives newly registered users their first recipes
type StarterSeeder interface {
	SeedStarterRecipes(ctx context.Context, userID uuid.UUID) error
}

// UserService implements user management use cases
type UserService struct {
	userRepo   outbound.UserRepository
	seeder     StarterSeeder
	events     shared.EventPublisher
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	seeder StarterSeeder,
	events shared.EventPublisher,
	bcryptCost int,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		seeder:     seeder,
		events:     events,
		bcryptCost: bcryptCost,
		logger:     logger.Named("user-service"),
	}
}

// Register creates a new user account and seeds the starter recipes
func (s *UserService) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.UserDTO, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(cmd.Email)
	s.logger.Info("Registering new user", zap.String("username", cmd.Username))

	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, errors.NewDatabaseError("check username", err)
	}
	if exists {
		return nil, errors.NewUserExistsError(cmd.Username)
	}

	newUser, err := user.NewUser(cmd.Username, cmd.Email, cmd.Password, s.bcryptCost)
	if err != nil {
		if stderrors.Is(err, user.ErrPasswordTooShort) || stderrors.Is(err, user.ErrPasswordTooLong) {
			return nil, errors.NewValidationError(err.Error()).WithField("password", err.Error())
		}
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if stderrors.Is(err, user.ErrUsernameTaken) {
			return nil, errors.NewUserExistsError(cmd.Username)
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.events.Publish(newUser.Events()...)

	if err := s.seeder.SeedStarterRecipes(ctx, newUser.ID()); err != nil {
		// Registration stands even when seeding fails
		s.logger.Error("Failed to seed starter recipes",
			zap.String("user_id", newUser.ID().String()),
			zap.Error(err),
		)
	}

	s.logger.Info("User registered successfully",
		zap.String("user_id", newUser.ID().String()),
		zap.String("username", newUser.Username()),
	)

	dto := toUserDTO(newUser)
	return &dto, nil
}

// Authenticate checks credentials and records the login
func (s *UserService) Authenticate(ctx context.Context, cmd inbound.LoginCommand) (*inbound.UserDTO, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	if err := inbound.Validate(cmd); err != nil {
		return nil, err
	}

	userEntity, err := s.userRepo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewInvalidCredentialsError()
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	if err := userEntity.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("username", cmd.Username))
		return nil, errors.NewInvalidCredentialsError()
	}

	userEntity.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, userEntity.ID(), *userEntity.LastLoginAt()); err != nil {
		s.logger.Error("Failed to update last login", zap.Error(err))
	}

	dto := toUserDTO(userEntity)
	return &dto, nil
}

// GetUser returns an account by id
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	dto := toUserDTO(userEntity)
	return &dto, nil
}

func toUserDTO(u *user.User) inbound.UserDTO {
	return inbound.UserDTO{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt().Truncate(time.Second),
	}
}
