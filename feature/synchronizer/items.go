package synchronizer

import (
	"context"

	"subdaap-sync/core/checksum"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/subsonic"

	"go.uber.org/zap"
)

// syncItems reconciles items, artists, albums and base container membership
// against the remote index, then deletes every row the walk did not touch.
func (s *session) syncItems(ctx context.Context) error {
	if err := s.preloadItems(ctx); err != nil {
		return err
	}

	for track, err := range s.walker.Tracks(ctx, s.indexes) {
		if err != nil {
			return remoteErr("walk index", err)
		}
		if err := s.syncTrack(ctx, track); err != nil {
			return err
		}
	}

	return s.deleteUntouchedItems(ctx)
}

func (s *session) preloadItems(ctx context.Context) error {
	tx := s.tx.WithContext(ctx)

	var artists []models.Artist
	if err := tx.Select("id", "remote_id", "checksum").Where("database_id = ?", s.databaseID).Find(&artists).Error; err != nil {
		return storeErr("preload artists", err)
	}
	for _, a := range artists {
		s.artists.Preload(a.RemoteID, a.ID, uint32(a.Checksum))
	}

	var albums []models.Album
	if err := tx.Select("id", "remote_id", "checksum").Where("database_id = ?", s.databaseID).Find(&albums).Error; err != nil {
		return storeErr("preload albums", err)
	}
	for _, a := range albums {
		s.albums.Preload(a.RemoteID, a.ID, uint32(a.Checksum))
	}

	var items []models.Item
	if err := tx.Select("id", "remote_id", "checksum").Where("database_id = ?", s.databaseID).Find(&items).Error; err != nil {
		return storeErr("preload items", err)
	}
	for _, i := range items {
		s.items.Preload(i.RemoteID, i.ID, uint32(i.Checksum))
	}

	var members []models.ContainerItem
	if err := tx.Select("id", "item_id").Where("container_id = ?", s.baseID).Find(&members).Error; err != nil {
		return storeErr("preload base container items", err)
	}
	for _, m := range members {
		s.base.Preload(m.ItemID, m.ID, 0)
	}
	return nil
}

func (s *session) syncTrack(ctx context.Context, track subsonic.Child) error {
	if track.ArtistID != "" && !s.artists.IsTouched(track.ArtistID.String()) {
		if err := s.syncArtist(ctx, track.ArtistID); err != nil {
			return err
		}
	}
	if track.AlbumID != "" && !s.albums.IsTouched(track.AlbumID.String()) {
		// The album was not listed under its artist; describe it from the track.
		album := subsonic.Album{
			ID:       track.AlbumID,
			Name:     track.Album,
			ArtistID: track.ArtistID,
			CoverArt: track.CoverArt,
		}
		if _, err := s.syncAlbum(ctx, album); err != nil {
			return err
		}
	}

	itemID, err := s.syncItem(ctx, track)
	if err != nil {
		return err
	}
	return s.syncBaseMembership(ctx, itemID)
}

func (s *session) syncArtist(ctx context.Context, id subsonic.ID) error {
	detail, err := s.walker.Artist(ctx, id)
	if err != nil {
		return remoteErr("expand artist", err)
	}

	key := id.String()
	sum := checksum.Of(checksum.F("name", detail.Name))
	tx := s.tx.WithContext(ctx)

	_, err = upsert(s.artists, key, sum,
		func() (int64, error) {
			row := models.Artist{
				DatabaseID: s.databaseID,
				Name:       detail.Name,
				Checksum:   int64(sum),
				RemoteID:   key,
			}
			if err := tx.Create(&row).Error; err != nil {
				return 0, storeErr("insert artist "+key, err)
			}
			s.logger.Debug("Inserted artist", zap.String("remote_id", key), zap.Int64("id", row.ID))
			return row.ID, nil
		},
		func(rowID int64) error {
			err := tx.Model(&models.Artist{}).Where("id = ?", rowID).Updates(map[string]any{
				"name":     detail.Name,
				"checksum": int64(sum),
			}).Error
			if err != nil {
				return storeErr("update artist "+key, err)
			}
			s.logger.Debug("Updated artist", zap.String("remote_id", key), zap.Int64("id", rowID))
			return nil
		},
	)
	if err != nil {
		return err
	}

	for _, album := range detail.Album {
		if s.albums.IsTouched(album.ID.String()) {
			continue
		}
		if _, err := s.syncAlbum(ctx, album); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) syncAlbum(ctx context.Context, album subsonic.Album) (int64, error) {
	key := album.ID.String()
	hasArt := album.CoverArt != ""

	var artistID *int64
	if album.ArtistID != "" {
		// An album may be credited to an artist listed later in the index.
		if !s.artists.IsTouched(album.ArtistID.String()) {
			if err := s.syncArtist(ctx, album.ArtistID); err != nil {
				return 0, err
			}
		}
		if e, ok := s.artists.Touched(album.ArtistID.String()); ok {
			artistID = ptr(e.ID)
		}
	}

	sum := checksum.Of(
		checksum.F("name", album.Name),
		checksum.F("artist_id", artistID),
		checksum.F("has_art", hasArt),
	)
	tx := s.tx.WithContext(ctx)

	return upsert(s.albums, key, sum,
		func() (int64, error) {
			row := models.Album{
				DatabaseID: s.databaseID,
				ArtistID:   artistID,
				Name:       album.Name,
				HasArt:     hasArt,
				Checksum:   int64(sum),
				RemoteID:   key,
			}
			if err := tx.Create(&row).Error; err != nil {
				return 0, storeErr("insert album "+key, err)
			}
			s.logger.Debug("Inserted album", zap.String("remote_id", key), zap.Int64("id", row.ID))
			return row.ID, nil
		},
		func(rowID int64) error {
			err := tx.Model(&models.Album{}).Where("id = ?", rowID).Updates(map[string]any{
				"artist_id": artistID,
				"name":      album.Name,
				"has_art":   hasArt,
				"checksum":  int64(sum),
			}).Error
			if err != nil {
				return storeErr("update album "+key, err)
			}
			s.logger.Debug("Updated album", zap.String("remote_id", key), zap.Int64("id", rowID))
			return nil
		},
	)
}

// itemRow maps a remote track to its item row without ids.
func itemRow(track subsonic.Child) models.Item {
	row := models.Item{
		Name:       track.Title,
		Genre:      track.Genre,
		Year:       track.Year,
		Track:      track.Track,
		Bitrate:    track.BitRate,
		FileName:   track.Path,
		FileType:   track.ContentType,
		FileSuffix: track.Suffix,
		FileSize:   track.Size,
		RemoteID:   track.ID.String(),
	}
	if track.Duration != nil {
		row.Duration = ptr(*track.Duration * 1000)
	}
	return row
}

func itemChecksum(row models.Item, artist, album string) uint32 {
	return checksum.Of(
		checksum.F("name", row.Name),
		checksum.F("genre", row.Genre),
		checksum.F("year", row.Year),
		checksum.F("track", row.Track),
		checksum.F("duration", row.Duration),
		checksum.F("bitrate", row.Bitrate),
		checksum.F("file_name", row.FileName),
		checksum.F("file_type", row.FileType),
		checksum.F("file_suffix", row.FileSuffix),
		checksum.F("file_size", row.FileSize),
		checksum.F("artist", artist),
		checksum.F("album", album),
	)
}

func (s *session) syncItem(ctx context.Context, track subsonic.Child) (int64, error) {
	row := itemRow(track)
	var artistKey, albumKey string
	if e, ok := s.artists.Touched(track.ArtistID.String()); ok && track.ArtistID != "" {
		row.ArtistID = ptr(e.ID)
		artistKey = track.ArtistID.String()
	}
	if e, ok := s.albums.Touched(track.AlbumID.String()); ok && track.AlbumID != "" {
		row.AlbumID = ptr(e.ID)
		albumKey = track.AlbumID.String()
	}
	sum := itemChecksum(row, artistKey, albumKey)
	row.Checksum = int64(sum)
	key := row.RemoteID
	tx := s.tx.WithContext(ctx)

	return upsert(s.items, key, sum,
		func() (int64, error) {
			row.DatabaseID = s.databaseID
			row.PersistentID = models.NewPersistentID()
			if err := tx.Create(&row).Error; err != nil {
				return 0, storeErr("insert item "+key, err)
			}
			s.logger.Debug("Inserted item", zap.String("remote_id", key), zap.Int64("id", row.ID))
			return row.ID, nil
		},
		func(rowID int64) error {
			err := tx.Model(&models.Item{}).Where("id = ?", rowID).Updates(map[string]any{
				"artist_id":   row.ArtistID,
				"album_id":    row.AlbumID,
				"name":        row.Name,
				"genre":       row.Genre,
				"year":        row.Year,
				"track":       row.Track,
				"duration":    row.Duration,
				"bitrate":     row.Bitrate,
				"file_name":   row.FileName,
				"file_type":   row.FileType,
				"file_suffix": row.FileSuffix,
				"file_size":   row.FileSize,
				"checksum":    row.Checksum,
			}).Error
			if err != nil {
				return storeErr("update item "+key, err)
			}
			s.logger.Debug("Updated item", zap.String("remote_id", key), zap.Int64("id", rowID))
			return nil
		},
	)
}

func (s *session) syncBaseMembership(ctx context.Context, itemID int64) error {
	_, err := upsert(s.base, itemID, 0,
		func() (int64, error) {
			row := models.ContainerItem{
				DatabaseID:  s.databaseID,
				ContainerID: s.baseID,
				ItemID:      itemID,
			}
			if err := s.tx.WithContext(ctx).Create(&row).Error; err != nil {
				return 0, storeErr("insert base container item", err)
			}
			return row.ID, nil
		},
		func(int64) error { return nil },
	)
	return err
}

// deleteUntouchedItems removes rows absent from the remote source, children
// before parents.
func (s *session) deleteUntouchedItems(ctx context.Context) error {
	if err := s.deleteIDs(ctx, &models.ContainerItem{}, s.base.Untouched()); err != nil {
		return storeErr("delete base container items", err)
	}

	items := s.items.Untouched()
	if len(items) > 0 {
		// Playlist memberships of deleted items go with them; remember them
		// so the live model drops them too.
		var orphans []models.ContainerItem
		err := s.tx.WithContext(ctx).
			Select("id", "container_id").
			Where("database_id = ? AND item_id IN ?", s.databaseID, items).
			Find(&orphans).Error
		if err != nil {
			return storeErr("load orphaned container items", err)
		}
		ids := make([]int64, 0, len(orphans))
		for _, o := range orphans {
			s.orphans[o.ContainerID] = append(s.orphans[o.ContainerID], o.ID)
			ids = append(ids, o.ID)
		}
		if err := s.deleteIDs(ctx, &models.ContainerItem{}, ids); err != nil {
			return storeErr("delete orphaned container items", err)
		}
	}
	if err := s.deleteIDs(ctx, &models.Item{}, items); err != nil {
		return storeErr("delete items", err)
	}
	if err := s.deleteIDs(ctx, &models.Album{}, s.albums.Untouched()); err != nil {
		return storeErr("delete albums", err)
	}
	if err := s.deleteIDs(ctx, &models.Artist{}, s.artists.Untouched()); err != nil {
		return storeErr("delete artists", err)
	}
	return nil
}
