package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subdaap-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner drives the synchronizers of all configured connections. Passes for
// the same connection never overlap; passes for different connections run
// concurrently up to the configured limit.
type Runner struct {
	syncs       []*Synchronizer
	guard       reconcile.Guard[*Result]
	concurrency int
	interval    time.Duration
	logger      *zap.Logger
}

// NewRunner creates a runner over syncs.
func NewRunner(cfg Config, logger *zap.Logger, syncs ...*Synchronizer) *Runner {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Runner{
		syncs:       syncs,
		concurrency: concurrency,
		interval:    cfg.Interval,
		logger:      logger,
	}
}

// Synchronizer returns the synchronizer of a connection index.
func (r *Runner) Synchronizer(index int) (*Synchronizer, bool) {
	for _, s := range r.syncs {
		if s.Index() == index {
			return s, true
		}
	}
	return nil, false
}

// SyncOne runs a pass for one connection. A caller arriving while a pass for
// the same connection is running receives that pass's result.
func (r *Runner) SyncOne(ctx context.Context, index int) (*Result, error) {
	s, ok := r.Synchronizer(index)
	if !ok {
		return nil, fmt.Errorf("no remote with index %d", index)
	}
	res, shared, err := r.guard.Do(ctx, index, s.Sync)
	if shared {
		r.logger.Debug("Joined running sync", zap.Int("index", index))
	}
	return res, err
}

// SyncAll runs one pass per connection. A failing connection does not stop
// the others; all failures are returned joined. Results are ordered like the
// synchronizers and nil for failed passes.
func (r *Runner) SyncAll(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(r.syncs))
	errs := make([]error, len(r.syncs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, s := range r.syncs {
		g.Go(func() error {
			res, err := r.SyncOne(ctx, s.Index())
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("remote %q (index %d): %w", s.Name(), s.Index(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// Run passes every connection immediately and then once per interval until
// ctx is done. Pass failures are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	r.tick(ctx)
	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.SyncAll(ctx); err != nil && ctx.Err() == nil {
		r.logger.Error("Periodic sync failed", zap.Error(err))
	}
}
