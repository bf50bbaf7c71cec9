package database

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector("oracle", "")
	assert.Error(t, err)
}

func TestDialectorKnownDrivers(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres"} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "datasets", "uploads"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
