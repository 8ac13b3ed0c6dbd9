package state

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncState is the row backing GormStore.
type SyncState struct {
	RemoteIndex       int       `gorm:"primaryKey;autoIncrement:false;column:remote_index"`
	ItemsVersion      int64     `gorm:"column:items_version;not null;default:0"`
	ContainersVersion int64     `gorm:"column:containers_version;not null;default:0"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (SyncState) TableName() string {
	return "sync_states"
}

// GormStore stores versions in the local store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a store backed by db. Call Migrate once before use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the sync_states table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&SyncState{})
}

func (s *GormStore) Load(ctx context.Context, index int) (Versions, error) {
	var rows []SyncState
	if err := s.db.WithContext(ctx).Where("remote_index = ?", index).Limit(1).Find(&rows).Error; err != nil {
		return Versions{}, fmt.Errorf("load state %d: %w", index, err)
	}
	if len(rows) == 0 {
		return Versions{}, nil
	}
	return Versions{Items: rows[0].ItemsVersion, Containers: rows[0].ContainersVersion}, nil
}

func (s *GormStore) Save(ctx context.Context, index int, v Versions) error {
	row := SyncState{
		RemoteIndex:       index,
		ItemsVersion:      v.Items,
		ContainersVersion: v.Containers,
		UpdatedAt:         time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "remote_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"items_version", "containers_version", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save state %d: %w", index, err)
	}
	return nil
}

func (s *GormStore) Reset(ctx context.Context, index int) error {
	if err := s.db.WithContext(ctx).Where("remote_index = ?", index).Delete(&SyncState{}).Error; err != nil {
		return fmt.Errorf("reset state %d: %w", index, err)
	}
	return nil
}
