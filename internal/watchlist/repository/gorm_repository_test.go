package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	"github.com/delcom/watchlist/internal/watchlist/repository"
	"github.com/delcom/watchlist/pkg/errors"
	"github.com/delcom/watchlist/test/testutil"
)

type WatchlistRepositoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	repo   repository.Repository
	userID uuid.UUID
}

func (suite *WatchlistRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.db = testutil.NewTestDB(suite.T())
}

func (suite *WatchlistRepositoryTestSuite) SetupTest() {
	suite.repo = repository.NewGormRepository(suite.db)
	suite.userID = uuid.New()
	testutil.TruncateTables(suite.T(), suite.db, "watchlist_entries")
}

// entry creates and persists an entry with the given title and createdAt offset.
func (suite *WatchlistRepositoryTestSuite) entry(title string, createdAgo time.Duration, mutate ...func(*domain.Entry)) *domain.Entry {
	e := testutil.CreateTestEntry(suite.userID, title)
	e.CreatedAt = time.Now().Add(-createdAgo)
	for _, m := range mutate {
		m(e)
	}
	suite.Require().NoError(suite.repo.Create(suite.ctx, e))
	return e
}

func (suite *WatchlistRepositoryTestSuite) TestCreateAndGetByID() {
	// Arrange
	created := suite.entry("Inception", 0)

	// Act
	retrieved, err := suite.repo.GetByID(suite.ctx, suite.userID, created.ID)

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.Title, retrieved.Title)
	assert.Equal(suite.T(), created.UserID, retrieved.UserID)
}

func (suite *WatchlistRepositoryTestSuite) TestGetByID_OtherUserIsNotFound() {
	created := suite.entry("Private", 0)

	retrieved, err := suite.repo.GetByID(suite.ctx, uuid.New(), created.ID)

	assert.Nil(suite.T(), retrieved)
	assert.True(suite.T(), errors.IsNotFound(err))
}

func (suite *WatchlistRepositoryTestSuite) TestGetAnyByID_IgnoresOwner() {
	created := suite.entry("Shared lookup", 0)

	retrieved, err := suite.repo.GetAnyByID(suite.ctx, created.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.ID, retrieved.ID)
}

func (suite *WatchlistRepositoryTestSuite) TestListByUser_NewestFirst() {
	oldest := suite.entry("Oldest", 3*time.Hour)
	newest := suite.entry("Newest", 0)
	middle := suite.entry("Middle", 1*time.Hour)

	entries, err := suite.repo.ListByUser(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	suite.Require().Len(entries, 3)
	assert.Equal(suite.T(), newest.ID, entries[0].ID)
	assert.Equal(suite.T(), middle.ID, entries[1].ID)
	assert.Equal(suite.T(), oldest.ID, entries[2].ID)
}

func (suite *WatchlistRepositoryTestSuite) TestListByUser_ScopedToOwner() {
	suite.entry("Mine", 0)

	other := testutil.CreateTestEntry(uuid.New(), "Theirs")
	suite.Require().NoError(suite.repo.Create(suite.ctx, other))

	entries, err := suite.repo.ListByUser(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), "Mine", entries[0].Title)
}

func (suite *WatchlistRepositoryTestSuite) TestSearch_MatchesTitleGenreNotes() {
	suite.entry("The Matrix", 0, func(e *domain.Entry) { e.Genre = "Action" })
	suite.entry("Quiet film", 1*time.Hour, func(e *domain.Entry) { e.Genre = "Sci-Fi" })
	suite.entry("Another", 2*time.Hour, func(e *domain.Entry) { e.Notes = "pure sci-fi gold" })

	byTitle, err := suite.repo.Search(suite.ctx, suite.userID, "matrix")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), byTitle, 1)

	byGenreAndNotes, err := suite.repo.Search(suite.ctx, suite.userID, "SCI-FI")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), byGenreAndNotes, 2)

	none, err := suite.repo.Search(suite.ctx, suite.userID, "western")
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func (suite *WatchlistRepositoryTestSuite) TestSearch_ScopedToOwner() {
	other := testutil.CreateTestEntry(uuid.New(), "The Matrix")
	suite.Require().NoError(suite.repo.Create(suite.ctx, other))

	results, err := suite.repo.Search(suite.ctx, suite.userID, "matrix")

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), results)
}

func (suite *WatchlistRepositoryTestSuite) TestListByTypeAndStatus() {
	suite.entry("Movie A", 0)
	suite.entry("Series B", 1*time.Hour, func(e *domain.Entry) {
		e.Type = domain.MediaTypeSeries
		e.Status = domain.StatusWatching
	})

	movies, err := suite.repo.ListByType(suite.ctx, suite.userID, "Movie")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), movies, 1)

	watching, err := suite.repo.ListByStatus(suite.ctx, suite.userID, "Watching")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), watching, 1)

	// Unrecognized filter values yield empty results, not errors.
	unknownType, err := suite.repo.ListByType(suite.ctx, suite.userID, "Documentary")
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), unknownType)

	unknownStatus, err := suite.repo.ListByStatus(suite.ctx, suite.userID, "Paused")
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), unknownStatus)
}

func (suite *WatchlistRepositoryTestSuite) TestDistinctGenres_SortedAndDeduplicated() {
	suite.entry("A", 0, func(e *domain.Entry) { e.Genre = "Drama" })
	suite.entry("B", 1*time.Hour, func(e *domain.Entry) { e.Genre = "Action" })
	suite.entry("C", 2*time.Hour, func(e *domain.Entry) { e.Genre = "Drama" })

	genres, err := suite.repo.DistinctGenres(suite.ctx, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Action", "Drama"}, genres)
}

func (suite *WatchlistRepositoryTestSuite) TestUpdate() {
	created := suite.entry("Original", 0)

	created.Title = "Renamed"
	created.Rating = 4
	err := suite.repo.Update(suite.ctx, created)
	assert.NoError(suite.T(), err)

	retrieved, _ := suite.repo.GetByID(suite.ctx, suite.userID, created.ID)
	assert.Equal(suite.T(), "Renamed", retrieved.Title)
	assert.Equal(suite.T(), 4, retrieved.Rating)
}

func (suite *WatchlistRepositoryTestSuite) TestDelete() {
	created := suite.entry("Doomed", 0)

	deleted, err := suite.repo.Delete(suite.ctx, suite.userID, created.ID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)

	retrieved, err := suite.repo.GetByID(suite.ctx, suite.userID, created.ID)
	assert.Nil(suite.T(), retrieved)
	assert.True(suite.T(), errors.IsNotFound(err))
}

func (suite *WatchlistRepositoryTestSuite) TestDelete_OtherUserRowSurvives() {
	created := suite.entry("Protected", 0)

	deleted, err := suite.repo.Delete(suite.ctx, uuid.New(), created.ID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)

	retrieved, err := suite.repo.GetByID(suite.ctx, suite.userID, created.ID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), retrieved)
}

func (suite *WatchlistRepositoryTestSuite) TestGroupedCounts() {
	suite.entry("A", 0, func(e *domain.Entry) { e.Genre = "Drama" })
	suite.entry("B", 1*time.Hour, func(e *domain.Entry) { e.Genre = "Drama" })
	suite.entry("C", 2*time.Hour, func(e *domain.Entry) {
		e.Genre = "Action"
		e.Type = domain.MediaTypeSeries
		e.Status = domain.StatusWatched
	})

	genreCounts, err := suite.repo.CountByGenre(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]int64{"Drama": 2, "Action": 1}, genreCounts)

	statusCounts, err := suite.repo.CountByStatus(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]int64{"Plan to Watch": 2, "Watched": 1}, statusCounts)

	typeCounts, err := suite.repo.CountByType(suite.ctx, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]int64{"Movie": 2, "Series": 1}, typeCounts)
}

func (suite *WatchlistRepositoryTestSuite) TestGroupedCounts_EmptyUserHasEmptyMaps() {
	counts, err := suite.repo.CountByGenre(suite.ctx, uuid.New())

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), counts)
}

func (suite *WatchlistRepositoryTestSuite) TestAdvanceStatus_CycleSteps() {
	cases := []struct {
		stored string
		next   domain.Status
	}{
		{"Plan to Watch", domain.StatusWatching},
		{"Watching", domain.StatusWatched},
		{"watched", domain.StatusPlanToWatch},
		{"Bogus", domain.StatusWatching},
	}

	for _, tc := range cases {
		e := suite.entry("Cycle "+tc.stored, 0, func(e *domain.Entry) {
			e.Status = domain.Status(tc.stored)
		})
		now := time.Now().UTC().Truncate(time.Second)

		advanced, err := suite.repo.AdvanceStatus(suite.ctx, suite.userID, e.ID, now)

		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), tc.next, advanced.Status, "stored status %q", tc.stored)
		// The canonical string is what got persisted.
		stored, err := suite.repo.GetByID(suite.ctx, suite.userID, e.ID)
		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), tc.next, stored.Status)
		assert.False(suite.T(), stored.UpdatedAt.Before(now))
	}
}

func (suite *WatchlistRepositoryTestSuite) TestAdvanceStatus_OtherUserIsNotFound() {
	e := suite.entry("Theirs", 0, func(e *domain.Entry) {
		e.Status = domain.StatusWatching
	})

	advanced, err := suite.repo.AdvanceStatus(suite.ctx, uuid.New(), e.ID, time.Now().UTC())

	assert.Nil(suite.T(), advanced)
	assert.True(suite.T(), errors.IsNotFound(err))
	// The row is untouched.
	stored, err := suite.repo.GetByID(suite.ctx, suite.userID, e.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusWatching, stored.Status)
}

func (suite *WatchlistRepositoryTestSuite) TestSearch_WildcardsMatchLiterally() {
	suite.entry("100% Wolf", 0)
	suite.entry("Up", time.Hour)
	suite.entry("The_Office", 2*time.Hour)

	byPercent, err := suite.repo.Search(suite.ctx, suite.userID, "100%")
	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), byPercent, 1) {
		assert.Equal(suite.T(), "100% Wolf", byPercent[0].Title)
	}

	byUnderscore, err := suite.repo.Search(suite.ctx, suite.userID, "e_o")
	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), byUnderscore, 1) {
		assert.Equal(suite.T(), "The_Office", byUnderscore[0].Title)
	}

	bare, err := suite.repo.Search(suite.ctx, suite.userID, "%")
	assert.NoError(suite.T(), err)
	if assert.Len(suite.T(), bare, 1) {
		assert.Equal(suite.T(), "100% Wolf", bare[0].Title)
	}
}

func (suite *WatchlistRepositoryTestSuite) TestTransactionRollback() {
	tx, err := suite.repo.BeginTx(suite.ctx)
	suite.Require().NoError(err)

	entry := testutil.CreateTestEntry(suite.userID, "Uncommitted")
	suite.Require().NoError(tx.Create(suite.ctx, entry))
	suite.Require().NoError(tx.Rollback())

	retrieved, err := suite.repo.GetByID(suite.ctx, suite.userID, entry.ID)
	assert.Nil(suite.T(), retrieved)
	assert.True(suite.T(), errors.IsNotFound(err))
}

func TestWatchlistRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(WatchlistRepositoryTestSuite))
}
