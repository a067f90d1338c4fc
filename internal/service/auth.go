// Package service contains the business logic layer.
//
// Services accept plain values and a context, enforce the application's
// rules, and return domain errors from internal/apperror. They know nothing
// about HTTP: handlers translate requests in and errors out.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/miniblog/internal/apperror"
	"github.com/sakif/miniblog/internal/auth"
	"github.com/sakif/miniblog/internal/model"
	"github.com/sakif/miniblog/internal/repository"
)

const (
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// AuthService implements registration and login policy.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// The pre-insert GetByUsername is advisory; it exists to give the common
// duplicate a friendly path without an insert attempt. The UNIQUE constraint
// in storage is the real guard: two concurrent registrations of the same
// name both pass the check, and the loser still comes back as
// ErrDuplicateUsername from Create, with the winner's digest untouched.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "Please fill all fields.")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("Username must be %d characters or fewer.", MaxUsernameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be %d characters or fewer.", MaxPasswordLength))
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperror.DuplicateUsername()
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, apperror.StorageUnavailable(err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Error("password hashing failed", slog.String("error", err.Error()))
		return nil, apperror.StorageUnavailable(err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateUsername) {
			return nil, apperror.DuplicateUsername()
		}
		s.logger.Error("creating user failed", slog.String("error", err.Error()))
		return nil, apperror.StorageUnavailable(err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and returns the account.
//
// An unknown username and a wrong password produce the same
// ErrInvalidCredentials; response content must not reveal which usernames
// exist. Only a storage failure is distinguishable, and only as the generic
// failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "Please enter both username and password.")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		s.logger.Error("login lookup failed", slog.String("error", err.Error()))
		return nil, apperror.StorageUnavailable(err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}
