package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	pkgerrors "github.com/delcom/watchlist/pkg/errors"
	pkgrepo "github.com/delcom/watchlist/pkg/repository"
)

// likeEscaper makes LIKE metacharacters in user search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create persists a new entry.
func (r *GormRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return pkgrepo.Create(ctx, r.db, entry)
}

// GetByID retrieves an entry by ID, scoped to its owner. A missing row and a
// row owned by someone else are indistinguishable: both return NotFound.
func (r *GormRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	return pkgrepo.FindOneBy[domain.Entry](ctx, r.db, "id = ? AND user_id = ?", id, userID)
}

// GetAnyByID retrieves an entry by ID without owner scoping.
func (r *GormRepository) GetAnyByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	return pkgrepo.FindByID[domain.Entry](ctx, r.db, id)
}

// ListByUser lists all of a user's entries ordered by creation time,
// newest first. The id column breaks creation-time ties deterministically.
func (r *GormRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Search lists a user's entries whose title, genre or notes contain the term.
// LOWER on both sides keeps the match case-insensitive on postgres and sqlite
// alike; the term itself is escaped so % and _ match literally.
func (r *GormRepository) Search(ctx context.Context, userID uuid.UUID, term string) ([]*domain.Entry, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(genre) LIKE ? ESCAPE '\' OR LOWER(notes) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		).
		Order("created_at DESC, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	return entries, nil
}

// ListByType lists a user's entries with an exact media type match.
func (r *GormRepository) ListByType(ctx context.Context, userID uuid.UUID, mediaType string) ([]*domain.Entry, error) {
	return r.listWhere(ctx, userID, "type = ?", mediaType)
}

// ListByStatus lists a user's entries with an exact status match.
func (r *GormRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Entry, error) {
	return r.listWhere(ctx, userID, "status = ?", status)
}

func (r *GormRepository) listWhere(ctx context.Context, userID uuid.UUID, query string, args ...interface{}) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(query, args...).
		Order("created_at DESC, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// DistinctGenres lists a user's distinct genres, sorted ascending.
func (r *GormRepository) DistinctGenres(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var genres []string
	err := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("user_id = ?", userID).
		Distinct("genre").
		Order("genre").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// Update saves all fields of an existing entry.
func (r *GormRepository) Update(ctx context.Context, entry *domain.Entry) error {
	return pkgrepo.Update(ctx, r.db, entry)
}

// AdvanceStatus advances an entry's status one step through the watch cycle
// with a single UPDATE: concurrent advances serialize on the row lock, so
// each one moves the entry exactly one step. The CASE mirrors
// domain.NextStatus, including the self-heal of unrecognized values.
func (r *GormRepository) AdvanceStatus(ctx context.Context, userID, id uuid.UUID, now time.Time) (*domain.Entry, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status": gorm.Expr(
				"CASE LOWER(status) WHEN 'watching' THEN ? WHEN 'watched' THEN ? ELSE ? END",
				string(domain.StatusWatched),
				string(domain.StatusPlanToWatch),
				string(domain.StatusWatching),
			),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to advance status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.NotFound("entity not found")
	}
	return r.GetByID(ctx, userID, id)
}

// Delete removes an entry if it exists and belongs to the user.
func (r *GormRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Entry{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountByGenre counts a user's entries grouped by genre.
func (r *GormRepository) CountByGenre(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	return r.countGrouped(ctx, userID, "genre")
}

// CountByStatus counts a user's entries grouped by status.
func (r *GormRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	return r.countGrouped(ctx, userID, "status")
}

// CountByType counts a user's entries grouped by media type.
func (r *GormRepository) CountByType(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	return r.countGrouped(ctx, userID, "type")
}

type groupCount struct {
	Value string
	Count int64
}

func (r *GormRepository) countGrouped(ctx context.Context, userID uuid.UUID, column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

// BeginTx starts a transaction and returns a Repository bound to it.
func (r *GormRepository) BeginTx(ctx context.Context) (Repository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &GormRepository{db: tx}, nil
}

// Commit commits the transaction.
func (r *GormRepository) Commit() error {
	return r.db.Commit().Error
}

// Rollback rolls back the transaction.
func (r *GormRepository) Rollback() error {
	return r.db.Rollback().Error
}
