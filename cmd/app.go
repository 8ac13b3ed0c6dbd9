package cmd

import (
	"context"
	"fmt"

	"subdaap-sync/core/config"
	"subdaap-sync/core/database"
	"subdaap-sync/core/logger"
	"subdaap-sync/core/storage"
	"subdaap-sync/feature/library"
	"subdaap-sync/feature/state"
	"subdaap-sync/feature/subsonic"
	"subdaap-sync/feature/synchronizer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application bundles the wired components shared by the commands.
type application struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	model  *library.Model
	runner *synchronizer.Runner
}

// bootstrap loads configuration and wires store, state and synchronizers.
// With serve set, the live model is loaded and receives propagation.
func bootstrap(ctx context.Context, serve bool) (*application, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	if err := synchronizer.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog tables: %w", err)
	}

	store, err := newStateStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	app := &application{cfg: cfg, logger: logg, db: db}

	var target synchronizer.Target
	if serve {
		app.model = library.NewModel(db)
		if err := app.model.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load live model: %w", err)
		}
		target = app.model
	}

	syncs := make([]*synchronizer.Synchronizer, 0, len(cfg.Remotes))
	for _, remote := range cfg.Remotes {
		client, err := subsonic.NewHTTPClient(remote)
		if err != nil {
			return nil, err
		}
		syncs = append(syncs, synchronizer.New(cfg.Sync, remote, client, db, store, target, logg))
	}
	app.runner = synchronizer.NewRunner(cfg.Sync, logg, syncs...)

	logg.Debug("Application wired",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("state_backend", cfg.Sync.StateBackend),
		zap.Int("remotes", len(syncs)),
	)
	return app, nil
}

func newStateStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (state.Store, error) {
	switch cfg.Sync.StateBackend {
	case synchronizer.StateBackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		return state.NewObjectStore(client, cfg.Storage.Bucket, cfg.Sync.StatePrefix), nil
	default:
		store := state.NewGormStore(db)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate sync state table: %w", err)
		}
		return store, nil
	}
}
