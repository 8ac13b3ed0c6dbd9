package reconcile

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Guard serializes passes per connection key. While a pass for a key is in
// flight, further callers for the same key wait for it and receive its
// result instead of starting an overlapping pass.
type Guard[T any] struct {
	sf singleflight.Group
}

// Do runs fn for key unless a run for key is already in flight, in which case
// it waits for that run. shared reports whether the result came from another
// caller's run.
//
// fn receives the context of the caller that started the run. Cancelling it
// aborts the run for every caller that joined it; a joining caller's own ctx
// only stops that caller from waiting.
func (g *Guard[T]) Do(ctx context.Context, key int, fn func(context.Context) (T, error)) (result T, shared bool, err error) {
	ch := g.sf.DoChan(strconv.Itoa(key), func() (interface{}, error) {
		return fn(ctx)
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Shared, res.Err
		}
		return res.Val.(T), res.Shared, nil
	}
}
