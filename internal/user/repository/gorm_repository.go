package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delcom/watchlist/pkg/models"
	pkgrepo "github.com/delcom/watchlist/pkg/repository"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based user repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return pkgrepo.Create(ctx, r.db, user)
}

func (r *GormRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return pkgrepo.FindByID[models.User](ctx, r.db, id)
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return pkgrepo.FindOneBy[models.User](ctx, r.db, "username = ?", username)
}

func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return pkgrepo.FindOneBy[models.User](ctx, r.db, "email = ?", email)
}
