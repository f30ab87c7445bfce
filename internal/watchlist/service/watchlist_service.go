package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	"github.com/delcom/watchlist/internal/watchlist/repository"
	"github.com/delcom/watchlist/pkg/errors"
	"github.com/delcom/watchlist/pkg/interfaces"
)

// WatchlistService handles watchlist business logic
type WatchlistService struct {
	repo   repository.Repository
	logger interfaces.Logger
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(repo repository.Repository, logger interfaces.Logger) *WatchlistService {
	return &WatchlistService{
		repo:   repo,
		logger: logger,
	}
}

var _ Service = (*WatchlistService)(nil)

// Create validates the candidate and persists a new entry for the user.
// A blank status resolves to Plan to Watch; every other invalid field is
// rejected, never coerced.
func (s *WatchlistService) Create(ctx context.Context, userID uuid.UUID, candidate domain.Candidate) (*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       candidate.Title,
		Type:        domain.MediaType(candidate.Type),
		Genre:       candidate.Genre,
		Rating:      candidate.Rating,
		ReleaseYear: candidate.ReleaseYear,
		Status:      domain.ResolveStatus(candidate.Status),
		Notes:       candidate.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create watchlist entry", interfaces.Error(err))
		return nil, err
	}

	s.logger.Info("Watchlist entry created",
		interfaces.String("id", entry.ID.String()),
		interfaces.String("user_id", userID.String()),
		interfaces.String("title", entry.Title))

	return entry, nil
}

// Get retrieves one of the user's entries. An entry owned by another user
// is reported as not found, never as forbidden.
func (s *WatchlistService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List lists the user's entries newest first. A non-blank search term
// switches to a substring search; a blank or whitespace-only term always
// yields the full listing, never an empty-term search.
func (s *WatchlistService) List(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}

	term := strings.TrimSpace(search)
	if term != "" {
		return s.repo.Search(ctx, userID, term)
	}
	return s.repo.ListByUser(ctx, userID)
}

// ListByType lists the user's entries of an exact media type. An
// unrecognized type yields an empty listing rather than an error.
func (s *WatchlistService) ListByType(ctx context.Context, userID uuid.UUID, mediaType string) ([]*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}
	return s.repo.ListByType(ctx, userID, mediaType)
}

// ListByStatus lists the user's entries with an exact status. An
// unrecognized status yields an empty listing rather than an error.
func (s *WatchlistService) ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}
	return s.repo.ListByStatus(ctx, userID, status)
}

// ListGenres lists the user's distinct genres, sorted ascending.
func (s *WatchlistService) ListGenres(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}
	return s.repo.DistinctGenres(ctx, userID)
}

// Update overwrites the entry's mutable fields in place. The existence
// check runs before validation so a caller can never learn validation
// detail about an entry it cannot access. ID, owner, creation time and
// cover reference are never touched.
func (s *WatchlistService) Update(ctx context.Context, userID, id uuid.UUID, candidate domain.Candidate) (*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := tx.GetByID(ctx, userID, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := candidate.Validate(); err != nil {
		tx.Rollback()
		return nil, err
	}

	entry.Title = candidate.Title
	entry.Type = domain.MediaType(candidate.Type)
	entry.Genre = candidate.Genre
	entry.Rating = candidate.Rating
	entry.ReleaseYear = candidate.ReleaseYear
	entry.Status = domain.ResolveStatus(candidate.Status)
	entry.Notes = candidate.Notes
	entry.UpdatedAt = time.Now().UTC()

	if err := tx.Update(ctx, entry); err != nil {
		tx.Rollback()
		s.logger.Error("Failed to update watchlist entry", interfaces.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("Watchlist entry updated",
		interfaces.String("id", entry.ID.String()),
		interfaces.String("user_id", userID.String()))

	return entry, nil
}

// SetCover records a stored cover reference on an entry. A missing entry
// is a silent no-op: the upload path has already authorized the caller
// and stored the blob, and a dangling reference hurts nothing.
func (s *WatchlistService) SetCover(ctx context.Context, id uuid.UUID, coverRef string) error {
	entry, err := s.repo.GetAnyByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	entry.Cover = coverRef
	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to set cover reference", interfaces.Error(err))
		return err
	}

	s.logger.Info("Cover reference set",
		interfaces.String("id", id.String()),
		interfaces.String("cover", coverRef))

	return nil
}

// Delete removes one of the user's entries permanently. It reports
// whether a row was deleted; the boundary maps false to not found.
func (s *WatchlistService) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, errors.Unauthorized("no resolved user identity")
	}

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		s.logger.Error("Failed to delete watchlist entry", interfaces.Error(err))
		return false, err
	}

	if deleted {
		s.logger.Info("Watchlist entry deleted",
			interfaces.String("id", id.String()),
			interfaces.String("user_id", userID.String()))
	}

	return deleted, nil
}

// CycleStatus advances the entry's status one step through the closed
// cycle. The advance is a single atomic statement in the repository, so
// two concurrent cycles each move the entry exactly one step.
func (s *WatchlistService) CycleStatus(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}

	entry, err := s.repo.AdvanceStatus(ctx, userID, id, time.Now().UTC())
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("Failed to cycle watchlist status", interfaces.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Watchlist status cycled",
		interfaces.String("id", entry.ID.String()),
		interfaces.String("status", string(entry.Status)))

	return entry, nil
}

// Statistics aggregates the user's entries by genre, status and media type.
// Categories without entries are absent from their map.
func (s *WatchlistService) Statistics(ctx context.Context, userID uuid.UUID) (*domain.Statistics, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("no resolved user identity")
	}

	genreCounts, err := s.repo.CountByGenre(ctx, userID)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	typeCounts, err := s.repo.CountByType(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Statistics{
		GenreCounts:  genreCounts,
		StatusCounts: statusCounts,
		TypeCounts:   typeCounts,
	}, nil
}
