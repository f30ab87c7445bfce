package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	"github.com/delcom/watchlist/pkg/models"
)

// NewTestDB creates a new in-memory SQLite database for testing
// with the service's schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Entry{},
		&models.User{},
	)
	require.NoError(t, err)

	return db
}

// TruncateTables removes all rows from the given tables between tests.
func TruncateTables(t *testing.T, db *gorm.DB, tables ...string) {
	t.Helper()

	for _, table := range tables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
}
