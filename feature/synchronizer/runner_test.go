package synchronizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"subdaap-sync/core/database"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/state"
	"subdaap-sync/feature/subsonic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRunnerEnv(t *testing.T) (*gorm.DB, *fakeRemote, *fakeRemote, *Runner) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	store := state.NewGormStore(db)
	require.NoError(t, store.Migrate())

	cfg := Config{VersionMode: VersionModeHash, StateBackend: StateBackendDatabase, Concurrency: 2}

	home := newFakeRemote()
	home.addTrack("ar1", "al1", "t1", "One")
	office := newFakeRemote()
	office.addTrack("ar9", "al9", "t9", "Nine")
	office.addTrack("ar9", "al9", "t10", "Ten")

	syncs := []*Synchronizer{
		New(cfg, subsonic.Config{Index: 1, Name: "Home", URL: "http://home"}, home, db, store, nil, zap.NewNop()),
		New(cfg, subsonic.Config{Index: 2, Name: "Office", URL: "http://office"}, office, db, store, nil, zap.NewNop()),
	}
	return db, home, office, NewRunner(cfg, zap.NewNop(), syncs...)
}

func TestRunner_SyncAll(t *testing.T) {
	db, _, _, r := newRunnerEnv(t)

	results, err := r.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Items.Inserted)
	assert.Equal(t, 2, results[1].Items.Inserted)

	var n int64
	require.NoError(t, db.Model(&models.Database{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	// Items of different databases never collide.
	require.NoError(t, db.Model(&models.Container{}).Where("is_base = ?", true).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestRunner_FailureIsolated(t *testing.T) {
	_, home, _, r := newRunnerEnv(t)
	home.errs["getIndexes"] = errors.New("down")

	results, err := r.SyncAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "Home")
	assert.Nil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, 2, results[1].Items.Inserted)
}

func TestRunner_SyncOne(t *testing.T) {
	_, home, office, r := newRunnerEnv(t)

	res, err := r.SyncOne(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Office", res.Name)
	assert.Zero(t, home.calls["getIndexes"])
	assert.Equal(t, 1, office.calls["getIndexes"])

	_, err = r.SyncOne(context.Background(), 7)
	assert.ErrorContains(t, err, "no remote with index 7")
}

// blockingRemote holds getIndexes until released.
type blockingRemote struct {
	*fakeRemote
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRemote) GetIndexes(ctx context.Context, since int64) (*subsonic.Indexes, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeRemote.GetIndexes(ctx, since)
}

func TestRunner_NoOverlappingPasses(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	store := state.NewGormStore(db)
	require.NoError(t, store.Migrate())

	remote := &blockingRemote{
		fakeRemote: newFakeRemote(),
		entered:    make(chan struct{}, 2),
		release:    make(chan struct{}),
	}
	remote.addTrack("ar1", "al1", "t1", "One")

	cfg := Config{VersionMode: VersionModeHash, StateBackend: StateBackendDatabase}
	s := New(cfg, subsonic.Config{Index: 1, URL: "http://home"}, remote, db, store, nil, zap.NewNop())
	r := NewRunner(cfg, zap.NewNop(), s)

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.SyncOne(context.Background(), 1)
			assert.NoError(t, err)
			results[i] = res
		}()
	}

	<-remote.entered
	// Give the second caller time to join the running pass.
	time.Sleep(50 * time.Millisecond)
	close(remote.release)
	wg.Wait()

	assert.Len(t, remote.entered, 0)
	assert.Same(t, results[0], results[1])
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	_, home, _, r := newRunnerEnv(t)
	r.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		home.mu.Lock()
		defer home.mu.Unlock()
		return home.calls["getIndexes"] >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
