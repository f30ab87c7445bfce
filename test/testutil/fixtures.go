package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	"github.com/delcom/watchlist/pkg/models"
)

// CreateTestUser creates a test user with default values.
func CreateTestUser(username, email string) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	user.SetPassword("testpass123")
	return user
}

// CreateTestEntry creates a watchlist entry owned by the given user.
func CreateTestEntry(userID uuid.UUID, title string) *domain.Entry {
	now := time.Now()
	return &domain.Entry{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Type:        domain.MediaTypeMovie,
		Genre:       "Drama",
		Rating:      7,
		ReleaseYear: 2020,
		Status:      domain.StatusPlanToWatch,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
