package synchronizer

import (
	"context"
	"sync/atomic"
	"time"

	"subdaap-sync/core/logger"
	"subdaap-sync/core/reconcile"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/state"
	"subdaap-sync/feature/subsonic"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Result describes a finished pass.
type Result struct {
	Index    int
	Name     string
	Previous state.Versions
	Versions state.Versions

	ItemsSynced      bool
	ContainersSynced bool

	Database   reconcile.Summary
	Artists    reconcile.Summary
	Albums     reconcile.Summary
	Items      reconcile.Summary
	BaseItems  reconcile.Summary
	Containers reconcile.Summary
	// ContainerItems counts playlist membership rows written by replacement.
	ContainerItems int

	Propagation *Propagation
	Duration    time.Duration
}

// Entities returns the summaries of every entity kind added together.
func (r *Result) Entities() reconcile.Summary {
	return r.Database.Add(r.Artists).Add(r.Albums).Add(r.Items).
		Add(r.BaseItems).Add(r.Containers)
}

// Writes returns the number of entity rows inserted, updated or deleted,
// not counting playlist membership replacement.
func (r *Result) Writes() int {
	return r.Entities().Writes()
}

// Synchronizer mirrors one remote connection into the local store and the
// live model. Passes of one Synchronizer must not overlap; Runner ensures
// that.
type Synchronizer struct {
	cfg    Config
	remote subsonic.Config
	client subsonic.Client
	db     *gorm.DB
	store  state.Store
	target Target
	logger *zap.Logger

	// full is set after a failed propagation: the next pass realigns the
	// live model with every touched id.
	full atomic.Bool
}

// New creates a Synchronizer. target may be nil when no live model is
// served.
func New(cfg Config, remote subsonic.Config, client subsonic.Client, db *gorm.DB, store state.Store, target Target, log *zap.Logger) *Synchronizer {
	remote = remote.WithDefaults()
	return &Synchronizer{
		cfg:    cfg,
		remote: remote,
		client: client,
		db:     db,
		store:  store,
		target: target,
		logger: logger.WithRemote(log, remote.Name, remote.Index),
	}
}

// Index returns the connection index.
func (s *Synchronizer) Index() int {
	return s.remote.Index
}

// Name returns the connection name.
func (s *Synchronizer) Name() string {
	return s.remote.Name
}

// Reset forgets the stored versions so the next pass reconciles and
// propagates everything.
func (s *Synchronizer) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx, s.remote.Index); err != nil {
		return storeErr("reset versions", err)
	}
	s.full.Store(true)
	return nil
}

// Sync runs one pass. On ErrRemote or ErrStore nothing was committed. On
// ErrPropagation the store committed but the live model may lag behind; the
// returned Result is still valid.
func (s *Synchronizer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()
	full := s.full.Load()

	prev, err := s.store.Load(ctx, s.remote.Index)
	if err != nil {
		return nil, storeErr("load versions", err)
	}

	s.logger.Info("Sync started",
		zap.Int64("items_version", prev.Items),
		zap.Int64("containers_version", prev.Containers),
		zap.Bool("full", full),
	)

	sess := newSession(s.cfg, s.remote, s.client, s.logger)
	sess.prev = prev
	if err := sess.probe(ctx, full); err != nil {
		s.logger.Error("Sync failed", zap.Error(err))
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sess.tx = tx
		defer func() { sess.tx = nil }()

		if err := sess.syncDatabase(ctx); err != nil {
			return err
		}
		if sess.itemsChanged {
			if err := sess.syncItems(ctx); err != nil {
				return err
			}
		}
		if sess.containersChanged {
			if err := sess.syncContainers(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = classify(err)
		s.logger.Error("Sync failed, changes rolled back", zap.Error(err))
		return nil, err
	}

	result := sess.result()
	result.Propagation = sess.plan(full)

	if s.target != nil {
		if err := result.Propagation.apply(ctx, s.target); err != nil {
			s.full.Store(true)
			result.Duration = time.Since(start)
			s.logger.Error("Propagation failed, live model diverges from store until the next pass", zap.Error(err))
			return result, err
		}
	}
	s.full.Store(false)

	if err := s.store.Save(ctx, s.remote.Index, sess.next); err != nil {
		result.Duration = time.Since(start)
		err = storeErr("save versions", err)
		s.logger.Error("Sync committed but versions were not saved", zap.Error(err))
		return result, err
	}

	result.Duration = time.Since(start)
	s.logger.Info("Sync finished",
		zap.Int64("items_version", result.Versions.Items),
		zap.Int64("containers_version", result.Versions.Containers),
		zap.Bool("items_synced", result.ItemsSynced),
		zap.Bool("containers_synced", result.ContainersSynced),
		zap.Int("items_inserted", result.Items.Inserted),
		zap.Int("items_updated", result.Items.Updated),
		zap.Int("items_removed", result.Items.Removed),
		zap.Int("containers_inserted", result.Containers.Inserted),
		zap.Int("containers_updated", result.Containers.Updated),
		zap.Int("containers_removed", result.Containers.Removed),
		zap.Int("writes", result.Writes()),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *session) result() *Result {
	r := &Result{
		Index:            s.remote.Index,
		Name:             s.remote.Name,
		Previous:         s.prev,
		Versions:         s.next,
		ItemsSynced:      s.itemsChanged,
		ContainersSynced: s.containersChanged,
		Database:         s.databaseSummary,
		Artists:          s.artists.Summary(),
		Albums:           s.albums.Summary(),
		Items:            s.items.Summary(),
		BaseItems:        s.base.Summary(),
		Containers:       s.containers.Summary(),
	}
	for _, ids := range s.members {
		r.ContainerItems += len(ids)
	}
	return r
}
