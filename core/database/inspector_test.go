package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE artists (id INTEGER PRIMARY KEY, name TEXT NOT NULL, remote_id TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "artists")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	byName := make(map[string]ColumnInfo)
	for _, col := range columns {
		byName[col.Field] = col
	}

	assert.Equal(t, "integer", byName["id"].Type)
	assert.Equal(t, "PRI", byName["id"].Key)
	assert.Equal(t, "text", byName["name"].Type)
	assert.Equal(t, "NO", byName["name"].Null)
	assert.Equal(t, "YES", byName["remote_id"].Null)

	// PRAGMA table_info returns nothing for an unknown table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE albums (id INTEGER PRIMARY KEY, name TEXT)").Error)

	missing, err := MissingColumns(db, "albums", "id", "Name", "has_art")
	assert.NoError(t, err)
	assert.Equal(t, []string{"has_art"}, missing)
}
