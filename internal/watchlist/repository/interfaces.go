package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/internal/watchlist/domain"
)

// Repository provides owner-scoped persistence for watchlist entries.
// Every lookup except GetAnyByID filters by the owning user, so one user's
// entries are invisible to any other.
type Repository interface {
	// Create persists a new entry.
	Create(ctx context.Context, entry *domain.Entry) error

	// GetByID retrieves an entry by ID, scoped to its owner.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error)

	// GetAnyByID retrieves an entry by ID without owner scoping.
	// Used only by the cover-attach path; callers authorize first.
	GetAnyByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)

	// ListByUser lists all of a user's entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error)

	// Search lists a user's entries whose title, genre or notes contain
	// the term, case-insensitively.
	Search(ctx context.Context, userID uuid.UUID, term string) ([]*domain.Entry, error)

	// ListByType lists a user's entries with an exact media type match.
	ListByType(ctx context.Context, userID uuid.UUID, mediaType string) ([]*domain.Entry, error)

	// ListByStatus lists a user's entries with an exact status match.
	ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Entry, error)

	// DistinctGenres lists a user's distinct genres, sorted ascending.
	DistinctGenres(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Update saves all fields of an existing entry.
	Update(ctx context.Context, entry *domain.Entry) error

	// Delete removes an entry if it exists and belongs to the user,
	// reporting whether a row was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)

	// AdvanceStatus advances an entry's status one step through the watch
	// cycle in a single atomic statement, so concurrent advances on the
	// same entry serialize on the row and each lands exactly once.
	AdvanceStatus(ctx context.Context, userID, id uuid.UUID, now time.Time) (*domain.Entry, error)

	// CountByGenre counts a user's entries grouped by genre.
	CountByGenre(ctx context.Context, userID uuid.UUID) (map[string]int64, error)

	// CountByStatus counts a user's entries grouped by status.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[string]int64, error)

	// CountByType counts a user's entries grouped by media type.
	CountByType(ctx context.Context, userID uuid.UUID) (map[string]int64, error)

	// BeginTx starts a transaction and returns a Repository bound to it.
	BeginTx(ctx context.Context) (Repository, error)

	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error
}
