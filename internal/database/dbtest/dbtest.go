// Package dbtest opens migrated SQLite databases for repository and
// handler tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
)

// Open returns a migrated database in a per-test temp directory. It is
// closed automatically when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	return OpenDatabase(t).DB
}

// OpenDatabase is Open, returning the wrapper instead of the gorm handle.
func OpenDatabase(t testing.TB) *database.Database {
	t.Helper()

	db, err := database.NewDatabase(database.Options{
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
