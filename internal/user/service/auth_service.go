package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/internal/user/repository"
	"github.com/delcom/watchlist/pkg/auth"
	"github.com/delcom/watchlist/pkg/errors"
	"github.com/delcom/watchlist/pkg/interfaces"
	"github.com/delcom/watchlist/pkg/models"
)

// AuthService handles registration and authentication
type AuthService struct {
	repo       repository.Repository
	jwtManager *auth.JWTManager
	logger     interfaces.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(repo repository.Repository, jwtManager *auth.JWTManager, logger interfaces.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, errors.BadRequest("username cannot be empty")
	}
	if email == "" {
		return nil, errors.BadRequest("email cannot be empty")
	}
	if len(password) < 8 {
		return nil, errors.BadRequest("password must be at least 8 characters")
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, errors.Conflict("username already taken")
	}
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("email already registered")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		interfaces.String("user_id", user.ID.String()),
		interfaces.String("username", user.Username))

	return user, nil
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	// Username field accepts an email too.
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		user, err = s.repo.GetUserByEmail(ctx, username)
		if err != nil {
			return "", nil, errors.Unauthorized("invalid credentials")
		}
	}

	if !user.Active {
		return "", nil, errors.Unauthorized("account is disabled")
	}

	if !user.CheckPassword(password) {
		return "", nil, errors.Unauthorized("invalid credentials")
	}

	token, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in",
		interfaces.String("user_id", user.ID.String()),
		interfaces.String("username", user.Username))

	return token, user, nil
}
