package synchronizer

import (
	"context"

	"subdaap-sync/core/checksum"
	"subdaap-sync/feature/subsonic"

	"go.uber.org/zap"
)

// probe determines whether the remote items and playlists changed since the
// stored versions. The fetched responses stay cached in the session.
func (s *session) probe(ctx context.Context, force bool) error {
	since := s.prev.Items
	if force {
		since = 0
	}
	indexes, err := s.client.GetIndexes(ctx, since)
	if err != nil {
		return remoteErr("getIndexes", err)
	}
	s.indexes = indexes

	s.next.Items = s.prev.Items
	if indexes.LastModified != 0 {
		s.next.Items = indexes.LastModified
	}
	s.itemsChanged = force || (indexes.LastModified != 0 && indexes.LastModified != s.prev.Items)

	playlists, err := s.client.GetPlaylists(ctx)
	if err != nil {
		return remoteErr("getPlaylists", err)
	}
	s.playlists = playlists

	sums := make([]checksum.Keyed, 0, len(playlists))
	for _, pl := range playlists {
		detail, err := s.client.GetPlaylist(ctx, pl.ID)
		if err != nil {
			return remoteErr("getPlaylist "+pl.ID.String(), err)
		}
		s.details[pl.ID] = detail
		sums = append(sums, checksum.Keyed{Key: pl.ID.String(), Sum: playlistChecksum(pl, detail)})
	}
	s.next.Containers = containersVersion(s.cfg.VersionMode, sums)
	s.containersChanged = force || s.next.Containers != s.prev.Containers

	s.logger.Debug("Probed remote versions",
		zap.Int64("items_version", s.next.Items),
		zap.Int64("containers_version", s.next.Containers),
		zap.Bool("items_changed", s.itemsChanged),
		zap.Bool("containers_changed", s.containersChanged),
	)
	return nil
}

// playlistChecksum covers a playlist and its entries in order.
func playlistChecksum(pl subsonic.Playlist, detail *subsonic.PlaylistDetail) uint32 {
	entries := make([]string, 0, len(detail.Entry))
	for _, e := range detail.Entry {
		entries = append(entries, e.ID.String())
	}
	return checksum.Of(
		checksum.F("id", pl.ID.String()),
		checksum.F("name", pl.Name),
		checksum.F("song_count", pl.SongCount),
		checksum.F("entries", entries),
	)
}

// containersVersion combines per-playlist checksums independently of their
// order.
func containersVersion(mode string, sums []checksum.Keyed) int64 {
	if mode == VersionModeSum {
		values := make([]uint32, 0, len(sums))
		for _, s := range sums {
			values = append(values, s.Sum)
		}
		return int64(checksum.SumModulo(values...))
	}
	return int64(checksum.Combine(sums) & 0x7FFFFFFFFFFFFFFF)
}
