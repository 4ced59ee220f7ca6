package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/folio/config"
	"github.com/cppla/folio/models"
)

// NewDB opens a migrated SQLite database in the test's temp dir.
// A single connection serialises writers so SQLite never reports SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, "?_pragma=foreign_keys(1)", 1)
}

// NewConcurrentDB opens a migrated SQLite database that really runs conns connections in
// parallel. WAL lets readers overlap a writer; writers wait on busy_timeout for the lock.
func NewConcurrentDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	return open(t, "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)", conns)
}

func open(t *testing.T, params string, conns int) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "folio.db") + params
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db, models.All()...))
	return db
}
