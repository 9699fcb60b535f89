package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pastel/internal/database"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pastel.db")

	db, err := database.New(path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'slots'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "slots", name)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pastel.db")

	require.NoError(t, database.Migrate(path))
	assert.NoError(t, database.Migrate(path))
}
