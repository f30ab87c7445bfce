package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/pkg/models"
)

// Repository defines the user persistence operations
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
