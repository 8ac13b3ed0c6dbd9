package synchronizer

import (
	"context"

	"subdaap-sync/core/checksum"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/subsonic"

	"go.uber.org/zap"
)

// syncContainers reconciles playlists and replaces their memberships, then
// deletes playlists the remote no longer has.
func (s *session) syncContainers(ctx context.Context) error {
	var existing []models.Container
	err := s.tx.WithContext(ctx).
		Select("id", "remote_id", "checksum").
		Where("database_id = ? AND is_base = ?", s.databaseID, false).
		Find(&existing).Error
	if err != nil {
		return storeErr("preload containers", err)
	}
	for _, c := range existing {
		if c.RemoteID == nil {
			continue
		}
		s.containers.Preload(*c.RemoteID, c.ID, uint32(c.Checksum))
	}

	for _, pl := range s.playlists {
		detail, ok := s.details[pl.ID]
		if !ok {
			// The probe caches every playlist; fetch only if it was skipped.
			fetched, err := s.client.GetPlaylist(ctx, pl.ID)
			if err != nil {
				return remoteErr("getPlaylist "+pl.ID.String(), err)
			}
			detail = fetched
		}

		containerID, err := s.syncContainer(ctx, pl)
		if err != nil {
			return err
		}
		if err := s.replaceMembers(ctx, containerID, detail); err != nil {
			return err
		}
	}

	removed := s.containers.Untouched()
	for chunk := range chunks(removed, s.cfg.batchSize()) {
		if err := s.tx.WithContext(ctx).Where("container_id IN ?", chunk).Delete(&models.ContainerItem{}).Error; err != nil {
			return storeErr("delete container items", err)
		}
	}
	if err := s.deleteIDs(ctx, &models.Container{}, removed); err != nil {
		return storeErr("delete containers", err)
	}
	return nil
}

func (s *session) syncContainer(ctx context.Context, pl subsonic.Playlist) (int64, error) {
	key := pl.ID.String()
	sum := checksum.Of(
		checksum.F("name", pl.Name),
		checksum.F("song_count", pl.SongCount),
		checksum.F("is_base", false),
		checksum.F("is_smart", false),
	)
	tx := s.tx.WithContext(ctx)

	return upsert(s.containers, key, sum,
		func() (int64, error) {
			row := models.Container{
				PersistentID: models.NewPersistentID(),
				DatabaseID:   s.databaseID,
				ParentID:     ptr(s.baseID),
				Name:         pl.Name,
				Checksum:     int64(sum),
				RemoteID:     ptr(key),
			}
			if err := tx.Create(&row).Error; err != nil {
				return 0, storeErr("insert container "+key, err)
			}
			s.logger.Debug("Inserted container", zap.String("remote_id", key), zap.Int64("id", row.ID))
			return row.ID, nil
		},
		func(rowID int64) error {
			err := tx.Model(&models.Container{}).Where("id = ?", rowID).Updates(map[string]any{
				"parent_id": s.baseID,
				"name":      pl.Name,
				"is_smart":  false,
				"checksum":  int64(sum),
			}).Error
			if err != nil {
				return storeErr("update container "+key, err)
			}
			s.logger.Debug("Updated container", zap.String("remote_id", key), zap.Int64("id", rowID))
			return nil
		},
	)
}

// replaceMembers rewrites the membership of a playlist in remote order.
// Entries whose item is unknown locally are skipped; positions keep the
// remote numbering.
func (s *session) replaceMembers(ctx context.Context, containerID int64, detail *subsonic.PlaylistDetail) error {
	tx := s.tx.WithContext(ctx)
	if err := tx.Where("container_id = ?", containerID).Delete(&models.ContainerItem{}).Error; err != nil {
		return storeErr("clear container items", err)
	}

	var rows []models.ContainerItem
	for entry := range subsonic.PlaylistEntries(detail) {
		itemID, ok, err := s.itemID(ctx, entry.Child.ID.String())
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("Skipping playlist entry without local item",
				zap.Int64("container_id", containerID),
				zap.String("remote_id", entry.Child.ID.String()),
			)
			continue
		}
		rows = append(rows, models.ContainerItem{
			DatabaseID:  s.databaseID,
			ContainerID: containerID,
			ItemID:      itemID,
			Order:       ptr(entry.Order),
		})
	}

	ids := make([]int64, 0, len(rows))
	if len(rows) > 0 {
		if err := tx.CreateInBatches(&rows, s.cfg.batchSize()).Error; err != nil {
			return storeErr("insert container items", err)
		}
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
	}
	s.members[containerID] = ids
	return nil
}
