package models

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Database is the local root of one remote catalog.
type Database struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	PersistentID int64  `gorm:"column:persistent_id;not null"`
	Name         string `gorm:"column:name;type:varchar(255);not null"`
	Checksum     int64  `gorm:"column:checksum;not null;default:0"`
	RemoteIndex  int    `gorm:"column:remote_index;not null;uniqueIndex"`
}

func (Database) TableName() string {
	return "databases"
}

// Container is a playlist or the base container of a database.
type Container struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	PersistentID int64     `gorm:"column:persistent_id;not null"`
	DatabaseID   int64     `gorm:"column:database_id;not null;index"`
	Database     *Database `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE"`
	ParentID     *int64    `gorm:"column:parent_id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	IsBase       bool      `gorm:"column:is_base;not null;default:false"`
	IsSmart      bool      `gorm:"column:is_smart;not null;default:false"`
	Checksum     int64     `gorm:"column:checksum;not null;default:0"`
	RemoteID     *string   `gorm:"column:remote_id;type:varchar(255)"` // NULL for the base container
}

func (Container) TableName() string {
	return "containers"
}

// Artist is a performer referenced by items and albums.
type Artist struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	DatabaseID int64     `gorm:"column:database_id;not null;uniqueIndex:idx_artists_remote"`
	Database   *Database `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE"`
	Name       string    `gorm:"column:name;type:varchar(255);not null"`
	Checksum   int64     `gorm:"column:checksum;not null;default:0"`
	RemoteID   string    `gorm:"column:remote_id;type:varchar(255);not null;uniqueIndex:idx_artists_remote"`
}

func (Artist) TableName() string {
	return "artists"
}

// Album groups items of one artist.
type Album struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	DatabaseID int64     `gorm:"column:database_id;not null;uniqueIndex:idx_albums_remote"`
	Database   *Database `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE"`
	ArtistID   *int64    `gorm:"column:artist_id"`
	Artist     *Artist   `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL"`
	Name       string    `gorm:"column:name;type:varchar(255);not null"`
	HasArt     bool      `gorm:"column:has_art;not null;default:false"`
	Checksum   int64     `gorm:"column:checksum;not null;default:0"`
	RemoteID   string    `gorm:"column:remote_id;type:varchar(255);not null;uniqueIndex:idx_albums_remote"`
}

func (Album) TableName() string {
	return "albums"
}

// Item is a track. Nullable columns mirror optional remote fields.
type Item struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	PersistentID int64     `gorm:"column:persistent_id;not null"`
	DatabaseID   int64     `gorm:"column:database_id;not null;uniqueIndex:idx_items_remote"`
	Database     *Database `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE"`
	ArtistID     *int64    `gorm:"column:artist_id"`
	Artist       *Artist   `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL"`
	AlbumID      *int64    `gorm:"column:album_id"`
	Album        *Album    `gorm:"foreignKey:AlbumID;constraint:OnDelete:SET NULL"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	Genre        *string   `gorm:"column:genre;type:varchar(255)"`
	Year         *int      `gorm:"column:year"`
	Track        *int      `gorm:"column:track"`
	Duration     *int      `gorm:"column:duration"` // milliseconds
	Bitrate      *int      `gorm:"column:bitrate"`
	FileName     *string   `gorm:"column:file_name;type:varchar(1024)"`
	FileType     *string   `gorm:"column:file_type;type:varchar(255)"`
	FileSuffix   *string   `gorm:"column:file_suffix;type:varchar(32)"`
	FileSize     *int64    `gorm:"column:file_size"`
	Checksum     int64     `gorm:"column:checksum;not null;default:0"`
	RemoteID     string    `gorm:"column:remote_id;type:varchar(255);not null;uniqueIndex:idx_items_remote"`
}

func (Item) TableName() string {
	return "items"
}

// ContainerItem places an item in a container. Position is set only for
// playlist memberships and is 1-based.
type ContainerItem struct {
	ID          int64      `gorm:"primaryKey;column:id"`
	DatabaseID  int64      `gorm:"column:database_id;not null;index"`
	ContainerID int64      `gorm:"column:container_id;not null;index"`
	Container   *Container `gorm:"foreignKey:ContainerID;constraint:OnDelete:CASCADE"`
	ItemID      int64      `gorm:"column:item_id;not null;index"`
	Item        *Item      `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Order       *int       `gorm:"column:position"`
}

func (ContainerItem) TableName() string {
	return "container_items"
}

// All returns every model in dependency order, suitable for AutoMigrate.
func All() []any {
	return []any{
		&Database{},
		&Container{},
		&Artist{},
		&Album{},
		&Item{},
		&ContainerItem{},
	}
}

// NewPersistentID returns a random positive 64-bit identifier.
func NewPersistentID() int64 {
	u := uuid.New()
	return int64(binary.BigEndian.Uint64(u[:8]) & 0x7FFFFFFFFFFFFFFF)
}
