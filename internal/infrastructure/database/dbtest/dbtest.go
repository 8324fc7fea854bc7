// Package dbtest provides migrated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/zyquraflow/internal/infrastructure/database"
)

// New returns a fresh, fully migrated database private to the test
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=on", name, uuid.NewString()[:8])

	db, err := database.OpenSQLite(dsn, logger.Silent)
	require.NoError(t, err)

	_, err = database.Migrate(db, migrate.Up, 0)
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.CloseDB(db) })
	return db
}
