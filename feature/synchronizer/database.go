package synchronizer

import (
	"context"
	"errors"

	"subdaap-sync/core/checksum"
	"subdaap-sync/core/reconcile"
	"subdaap-sync/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// syncDatabase reconciles the database row of the connection and its base
// container.
func (s *session) syncDatabase(ctx context.Context) error {
	tx := s.tx.WithContext(ctx)
	sum := checksum.Of(
		checksum.F("name", s.remote.Name),
		checksum.F("remote_index", s.remote.Index),
	)

	var existing models.Database
	err := tx.Where("remote_index = ?", s.remote.Index).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.Database{
			PersistentID: models.NewPersistentID(),
			Name:         s.remote.Name,
			Checksum:     int64(sum),
			RemoteIndex:  s.remote.Index,
		}
		if err := tx.Create(&row).Error; err != nil {
			return storeErr("insert database", err)
		}
		s.databaseID = row.ID
		s.databaseSummary = reconcile.Summary{Total: 1, Inserted: 1}
		s.logger.Debug("Inserted database", zap.Int64("id", row.ID))
	case err != nil:
		return storeErr("load database", err)
	case existing.Checksum != int64(sum):
		err := tx.Model(&models.Database{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"name":     s.remote.Name,
			"checksum": int64(sum),
		}).Error
		if err != nil {
			return storeErr("update database", err)
		}
		s.databaseID = existing.ID
		s.databaseSummary = reconcile.Summary{Total: 1, Updated: 1}
		s.logger.Debug("Updated database", zap.Int64("id", existing.ID))
	default:
		s.databaseID = existing.ID
		s.databaseSummary = reconcile.Summary{Total: 1, Unchanged: 1}
	}

	return s.syncBaseContainer(ctx)
}

func (s *session) syncBaseContainer(ctx context.Context) error {
	tx := s.tx.WithContext(ctx)
	sum := checksum.Of(
		checksum.F("is_base", true),
		checksum.F("is_smart", false),
		checksum.F("name", s.remote.Name),
	)

	var existing models.Container
	err := tx.Where("database_id = ? AND is_base = ?", s.databaseID, true).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.Container{
			PersistentID: models.NewPersistentID(),
			DatabaseID:   s.databaseID,
			Name:         s.remote.Name,
			IsBase:       true,
			Checksum:     int64(sum),
		}
		if err := tx.Create(&row).Error; err != nil {
			return storeErr("insert base container", err)
		}
		s.baseID = row.ID
		s.baseWritten = true
	case err != nil:
		return storeErr("load base container", err)
	case existing.Checksum != int64(sum):
		err := tx.Model(&models.Container{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"name":     s.remote.Name,
			"is_smart": false,
			"checksum": int64(sum),
		}).Error
		if err != nil {
			return storeErr("update base container", err)
		}
		s.baseID = existing.ID
		s.baseWritten = true
	default:
		s.baseID = existing.ID
	}
	return nil
}
