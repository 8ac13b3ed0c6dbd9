package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGuard_SharesInFlightPass tests that overlapping callers for one key share a single run.
func TestGuard_SharesInFlightPass(t *testing.T) {
	var g Guard[int]
	var runs atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = g.Do(context.Background(), 1, fn)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _, _ = g.Do(context.Background(), 1, fn)
	}()

	// Give the second caller time to join the in-flight run.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, []int{42, 42}, results)
}

// TestGuard_DistinctKeysRunIndependently tests that different connections do not share runs.
func TestGuard_DistinctKeysRunIndependently(t *testing.T) {
	var g Guard[int]

	a, _, err := g.Do(context.Background(), 1, func(ctx context.Context) (int, error) { return 1, nil })
	assert.NoError(t, err)
	b, _, err := g.Do(context.Background(), 2, func(ctx context.Context) (int, error) { return 2, nil })
	assert.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestGuard_PropagatesError(t *testing.T) {
	var g Guard[*Summary]
	boom := errors.New("boom")

	res, _, err := g.Do(context.Background(), 1, func(ctx context.Context) (*Summary, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
}

func TestGuard_ContextCancelled(t *testing.T) {
	var g Guard[int]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)

	_, _, err := g.Do(ctx, 1, func(ctx context.Context) (int, error) {
		<-block
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestGuard_StarterCancelAbortsSharedRun tests that joined callers see the starter's cancellation.
func TestGuard_StarterCancelAbortsSharedRun(t *testing.T) {
	var g Guard[int]
	starterCtx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}

	var wg sync.WaitGroup
	var starterErr, joinedErr error
	var joinedShared bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, starterErr = g.Do(starterCtx, 1, fn)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, joinedShared, joinedErr = g.Do(context.Background(), 1, fn)
	}()

	// Give the second caller time to join the in-flight run.
	time.Sleep(50 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.ErrorIs(t, starterErr, context.Canceled)
	assert.ErrorIs(t, joinedErr, context.Canceled)
	assert.True(t, joinedShared)
}
