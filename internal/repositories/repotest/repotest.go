// Package repotest opens throwaway SQLite databases for tests.
package repotest

import (
	"testing"

	"loyalty/internal/config"
	"loyalty/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory database private to the test. The pool
// holds a single connection, so concurrent callers queue on it the way they
// would on a locked row.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := repositories.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	t.Cleanup(func() { repositories.Close(db) })
	return db
}
