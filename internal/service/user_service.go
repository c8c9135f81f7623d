package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

const msgEmailTaken = "User with this email already exists"

type UserService struct {
	users storage.UserRepository
	log   *logger.Logger
}

func NewUserService(users storage.UserRepository, log *logger.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
	}
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	email := validation.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, invalidErr(err)
	}
	if name == "" {
		return nil, invalid("Name is required")
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, invalidErr(err)
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, passwordTooShort()
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, conflict(msgEmailTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, email, name, hash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, conflict(msgEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("Created user %d", user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update changes name and email only; passwords go through AuthService.ChangePassword.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email, name := user.Email, user.Name
	if req.Email != nil {
		email = validation.NormalizeEmail(*req.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, invalidErr(err)
		}
	}
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("Name is required")
		}
		if err := validation.ValidateName(name); err != nil {
			return nil, invalidErr(err)
		}
	}

	updated, err := s.users.UpdateUser(ctx, id, email, name)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, conflict(msgEmailTaken)
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.users.DeleteUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("Deleted user %d", id)
	return nil
}

// SetPassword replaces a password without knowing the current one. It backs
// the operator CLI and is not reachable over HTTP.
func (s *UserService) SetPassword(ctx context.Context, id int64, password string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return passwordTooShort()
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	err = s.users.UpdatePassword(ctx, id, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	s.log.Info("Password reset for user %d", id)
	return nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
