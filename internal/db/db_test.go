package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='cafes'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "cafes", tableName)
}

func TestOpenForTestingIsolated(t *testing.T) {
	first, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	second, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	_, err = first.Exec(`INSERT INTO cafes (name, map_url, img_url, location, seats,
		has_toilet, has_wifi, has_sockets, can_take_calls) VALUES ('A', 'm', 'i', 'l', 's', 1, 1, 1, 1)`)
	require.NoError(t, err)

	var n int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM cafes").Scan(&n))
	assert.Zero(t, n)
}

func TestOpenFileMigratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafes.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an already migrated file must not fail with ErrNoChange.
	db, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}
