package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/tokens"
	"github.com/Varun5711/campusapi/internal/validation"
)

// dummyHash is compared against when the email is unknown so that a miss costs
// about as much as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("no-such-user-password")
	return hash
})

type AuthService struct {
	users    storage.UserRepository
	jwt      *auth.JWTManager
	registry tokens.Registry
	log      *logger.Logger
}

func NewAuthService(users storage.UserRepository, jwt *auth.JWTManager, registry tokens.Registry, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwt:      jwt,
		registry: registry,
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var hash string
	if user != nil {
		cred, err := s.users.GetCredential(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get credential: %w", err)
		}
		if cred != nil {
			hash = cred.PasswordHash
		}
	}
	if hash == "" {
		_ = auth.CheckPassword(dummyHash(), req.Password)
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.PasswordMatches(hash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	accessToken, _, err := s.jwt.GenerateToken(user.ID, user.Email, auth.AccessToken)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.jwt.GenerateToken(user.ID, user.Email, auth.RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Add(ctx, refreshToken, s.jwt.TTL(auth.RefreshToken)); err != nil {
		return nil, err
	}

	s.log.Info("User %d logged in", user.ID)

	return &models.LoginResponse{
		Message:      "Login successful",
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	known, err := s.registry.Contains(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !known {
		return "", ErrUnknownRefreshToken
	}

	claims, err := s.jwt.ValidateToken(refreshToken, auth.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	accessToken, _, err := s.jwt.GenerateToken(user.ID, user.Email, auth.AccessToken)
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// Logout forgets the refresh token; unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}
	return s.registry.Revoke(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrPasswordFields
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return passwordTooShort()
	}

	cred, err := s.users.GetCredential(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get credential: %w", err)
	}
	if cred == nil {
		return ErrUserNotFound
	}

	ok, err := auth.PasswordMatches(cred.PasswordHash, req.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.Info("User %d changed password", userID)
	return nil
}

func passwordTooShort() *Error {
	return invalid(fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
}
