package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	for _, table := range []string{"users", "families", "subfamilies", "locations", "items", "item_locations"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Reopening must not fail on already-applied migrations.
	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	// The pragma must actually have taken effect on the connection, not
	// just appear in the DSN.
	var enabled int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled, "foreign_keys pragma must be on")

	_, err = database.Exec(
		"INSERT INTO subfamilies (id, name, family_id) VALUES ('s1', 'Orphan', 'missing')",
	)
	assert.Error(t, err, "insert referencing a missing family must be rejected")
}

func TestOpenSetsWALJournalMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var mode string
	require.NoError(t, database.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
