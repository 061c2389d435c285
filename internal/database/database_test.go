package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBCreatesAndMigrates(t *testing.T) {
	db, err := NewDB(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.NoError(t, db.Ping())

	var version int
	require.NoError(t, db.handler.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, len(migrations), version)
}

func TestNewDBFailsCleanlyOnUnusableDir(t *testing.T) {
	// sqlite cannot create the file inside a directory that does not exist;
	// the half-opened handle must not leak.
	_, err := NewDB(filepath.Join(t.TempDir(), "missing", "nested"), zerolog.Nop())
	assert.Error(t, err)
}
