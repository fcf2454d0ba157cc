package postgres

import (
	"testing"
	"testing/fstest"

	"admin_console/internal/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0010_late.up.sql":    {Data: []byte("SELECT 10")},
		"0002_second.up.sql":  {Data: []byte("SELECT 2")},
		"0001_first.up.sql":   {Data: []byte("SELECT 1")},
		"0001_first.down.sql": {Data: []byte("SELECT -1")},
		"README.md":           {Data: []byte("notes")},
	}

	migs, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 3)
	assert.Equal(t, []int64{1, 2, 10}, []int64{migs[0].Version, migs[1].Version, migs[2].Version})
	assert.Equal(t, "SELECT 2", migs[1].SQL)
}

func TestLoadMigrationsRejectsBadNames(t *testing.T) {
	_, err := LoadMigrations(fstest.MapFS{"init.up.sql": {Data: []byte("x")}})
	assert.Error(t, err)

	_, err = LoadMigrations(fstest.MapFS{
		"0001_a.up.sql": {Data: []byte("x")},
		"0001_b.up.sql": {Data: []byte("y")},
	})
	assert.ErrorContains(t, err, "duplicate migration version 1")
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	migs, err := LoadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "order_status_changes")
}

func TestAdvisoryLockIDStable(t *testing.T) {
	assert.Equal(t, advisoryLockID("admin_console_migrations"), advisoryLockID("admin_console_migrations"))
	assert.NotEqual(t, advisoryLockID("a"), advisoryLockID("b"))
}
