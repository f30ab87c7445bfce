package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/internal/watchlist/domain"
)

// Service is the watchlist domain surface consumed by the HTTP boundary.
// Every operation takes the owner identity resolved at the request boundary;
// the service never reaches into ambient context for it.
type Service interface {
	// Create validates the candidate and persists a new entry for the user.
	Create(ctx context.Context, userID uuid.UUID, candidate domain.Candidate) (*domain.Entry, error)

	// Get retrieves one of the user's entries.
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error)

	// List lists the user's entries; a non-blank search term switches to
	// a case-insensitive search over title, genre and notes.
	List(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Entry, error)

	// ListByType lists the user's entries of an exact media type.
	ListByType(ctx context.Context, userID uuid.UUID, mediaType string) ([]*domain.Entry, error)

	// ListByStatus lists the user's entries with an exact status.
	ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Entry, error)

	// ListGenres lists the user's distinct genres, sorted ascending.
	ListGenres(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Update validates the candidate and overwrites the entry's mutable fields.
	Update(ctx context.Context, userID, id uuid.UUID, candidate domain.Candidate) (*domain.Entry, error)

	// SetCover records a stored cover reference on an entry. Unlike every
	// other operation it is not owner-scoped; callers authorize first.
	SetCover(ctx context.Context, id uuid.UUID, coverRef string) error

	// Delete removes one of the user's entries, reporting whether a row
	// was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)

	// CycleStatus advances the entry's watch status one step through the cycle.
	CycleStatus(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error)

	// Statistics aggregates the user's entries by genre, status and type.
	Statistics(ctx context.Context, userID uuid.UUID) (*domain.Statistics, error)
}
