package models_test

import (
	"testing"

	"subdaap-sync/core/database"
	"subdaap-sync/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "databases", models.Database{}.TableName())
	assert.Equal(t, "containers", models.Container{}.TableName())
	assert.Equal(t, "container_items", models.ContainerItem{}.TableName())
	assert.Equal(t, "items", models.Item{}.TableName())
	assert.Equal(t, "artists", models.Artist{}.TableName())
	assert.Equal(t, "albums", models.Album{}.TableName())
}

func TestNewPersistentID(t *testing.T) {
	seen := make(map[int64]struct{})
	for i := 0; i < 100; i++ {
		id := models.NewPersistentID()
		assert.GreaterOrEqual(t, id, int64(0))
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestMigrateColumns(t *testing.T) {
	db := setupDB(t)

	missing, err := database.MissingColumns(db, "items",
		"persistent_id", "database_id", "artist_id", "album_id", "name", "genre",
		"year", "track", "duration", "bitrate", "file_name", "file_type",
		"file_suffix", "file_size", "checksum", "remote_id")
	require.NoError(t, err)
	assert.Empty(t, missing)

	missing, err = database.MissingColumns(db, "container_items", "container_id", "item_id", "position")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRemoteIDUniquePerDatabase(t *testing.T) {
	db := setupDB(t)

	d1 := models.Database{PersistentID: 1, Name: "one", RemoteIndex: 1}
	d2 := models.Database{PersistentID: 2, Name: "two", RemoteIndex: 2}
	require.NoError(t, db.Create(&d1).Error)
	require.NoError(t, db.Create(&d2).Error)

	require.NoError(t, db.Create(&models.Artist{DatabaseID: d1.ID, Name: "A", RemoteID: "ar1"}).Error)
	require.NoError(t, db.Create(&models.Artist{DatabaseID: d2.ID, Name: "A", RemoteID: "ar1"}).Error)
	assert.Error(t, db.Create(&models.Artist{DatabaseID: d1.ID, Name: "B", RemoteID: "ar1"}).Error)

	assert.Error(t, db.Create(&models.Database{PersistentID: 3, Name: "dup", RemoteIndex: 1}).Error)
}

func TestDeleteCascadesAndNullifies(t *testing.T) {
	db := setupDB(t)

	d := models.Database{PersistentID: 1, Name: "one", RemoteIndex: 1}
	require.NoError(t, db.Create(&d).Error)
	c := models.Container{PersistentID: 2, DatabaseID: d.ID, Name: "base", IsBase: true}
	require.NoError(t, db.Create(&c).Error)
	artist := models.Artist{DatabaseID: d.ID, Name: "A", RemoteID: "ar1"}
	require.NoError(t, db.Create(&artist).Error)
	item := models.Item{PersistentID: 3, DatabaseID: d.ID, ArtistID: &artist.ID, Name: "T", RemoteID: "t1"}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&models.ContainerItem{DatabaseID: d.ID, ContainerID: c.ID, ItemID: item.ID}).Error)

	require.NoError(t, db.Delete(&models.Artist{}, artist.ID).Error)
	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Nil(t, reloaded.ArtistID)

	require.NoError(t, db.Delete(&models.Item{}, item.ID).Error)
	var count int64
	require.NoError(t, db.Model(&models.ContainerItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
