package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_EmbeddedIsIdempotent(t *testing.T) {
	database, err := OpenSQLite(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, RunMigrations(database, Migrations()))
	require.NoError(t, RunMigrations(database, Migrations()))

	names, err := AppliedMigrations(database)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_sessions.sql"}, names)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(1) FROM sessions`).Scan(&count))
	assert.Zero(t, count)
}

func TestRunMigrations_FailedMigrationIsNotRecorded(t *testing.T) {
	database, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	migrations := fstest.MapFS{
		"0001_ok.sql":     {Data: []byte(`CREATE TABLE things (id INTEGER PRIMARY KEY);`)},
		"0002_broken.sql": {Data: []byte(`CREATE TABLE nope (`)},
		"README.md":       {Data: []byte("ignored")},
	}

	err = RunMigrations(database, migrations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken.sql")

	names, err := AppliedMigrations(database)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_ok.sql"}, names)
}
