package synchronizer

import (
	"context"
	"iter"
	"slices"

	"subdaap-sync/core/reconcile"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/state"
	"subdaap-sync/feature/subsonic"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// session is the state of one pass. It is created when the pass starts and
// discarded when it ends.
type session struct {
	cfg    Config
	remote subsonic.Config
	client subsonic.Client
	walker *subsonic.Walker
	logger *zap.Logger

	// tx is set while the pass holds its transaction.
	tx *gorm.DB

	// Remote responses fetched by the version probe.
	indexes   *subsonic.Indexes
	playlists []subsonic.Playlist
	details   map[subsonic.ID]*subsonic.PlaylistDetail

	prev state.Versions
	next state.Versions

	itemsChanged      bool
	containersChanged bool

	databaseID      int64
	databaseSummary reconcile.Summary
	baseID          int64
	baseWritten     bool

	artists    *reconcile.ChangeSet[string]
	albums     *reconcile.ChangeSet[string]
	items      *reconcile.ChangeSet[string]
	base       *reconcile.ChangeSet[int64]
	containers *reconcile.ChangeSet[string]

	// members holds the container item ids written per replaced container.
	members map[int64][]int64
	// orphans holds playlist memberships dropped with deleted items.
	orphans map[int64][]int64

	// itemIDs resolves item remote ids when the item walk was skipped.
	itemIDs map[string]int64
}

func newSession(cfg Config, remote subsonic.Config, client subsonic.Client, logger *zap.Logger) *session {
	return &session{
		cfg:        cfg,
		remote:     remote,
		client:     client,
		walker:     subsonic.NewWalker(client),
		logger:     logger,
		details:    make(map[subsonic.ID]*subsonic.PlaylistDetail),
		artists:    reconcile.NewChangeSet[string](),
		albums:     reconcile.NewChangeSet[string](),
		items:      reconcile.NewChangeSet[string](),
		base:       reconcile.NewChangeSet[int64](),
		containers: reconcile.NewChangeSet[string](),
		members:    make(map[int64][]int64),
		orphans:    make(map[int64][]int64),
	}
}

// itemID returns the local id of the item with the given remote id.
func (s *session) itemID(ctx context.Context, remoteID string) (int64, bool, error) {
	if s.itemsChanged {
		e, ok := s.items.Touched(remoteID)
		return e.ID, ok, nil
	}

	if s.itemIDs == nil {
		var rows []models.Item
		err := s.tx.WithContext(ctx).
			Select("id", "remote_id").
			Where("database_id = ?", s.databaseID).
			Find(&rows).Error
		if err != nil {
			return 0, false, storeErr("load item ids", err)
		}
		s.itemIDs = make(map[string]int64, len(rows))
		for _, r := range rows {
			s.itemIDs[r.RemoteID] = r.ID
		}
	}
	id, ok := s.itemIDs[remoteID]
	return id, ok, nil
}

// upsert applies the insert, update or skip decision for one row and marks
// key touched. A key already touched in this pass is not written again.
func upsert[K comparable](set *reconcile.ChangeSet[K], key K, sum uint32, insert func() (int64, error), update func(id int64) error) (int64, error) {
	if e, ok := set.Touched(key); ok {
		return e.ID, nil
	}

	e, ok := set.Lookup(key)
	switch {
	case !ok:
		id, err := insert()
		if err != nil {
			return 0, err
		}
		set.Touch(key, id, sum, true)
		return id, nil
	case e.Checksum != sum:
		if err := update(e.ID); err != nil {
			return 0, err
		}
		set.Touch(key, e.ID, sum, true)
	default:
		set.Touch(key, e.ID, sum, false)
	}
	return e.ID, nil
}

// deleteIDs removes rows of model by id in batches.
func (s *session) deleteIDs(ctx context.Context, model any, ids []int64) error {
	for chunk := range chunks(ids, s.cfg.batchSize()) {
		if err := s.tx.WithContext(ctx).Where("id IN ?", chunk).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func chunks(ids []int64, size int) iter.Seq[[]int64] {
	return slices.Chunk(ids, size)
}
