package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}

func TestMigrationsApplyToSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "test.db") + "?_pragma=foreign_keys(1)"

	database, err := Init("sqlite", dsn)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	var tables int
	err = database.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('slots', 'goals', 'articles')`)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)

	require.NoError(t, MigrateDown(database.DB, "sqlite"))
	version, err = Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}
