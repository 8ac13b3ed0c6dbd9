// Package reconcile provides the bookkeeping shared by every entity reconciler
// of a synchronization pass.
//
// A pass compares one remote source against the rows a local store already
// holds. Rows are preloaded into a ChangeSet keyed by their remote identity.
// While the remote source is walked, each entity that is seen is touched, with
// a flag telling whether the touch caused a write. When the walk completes the
// set is partitioned into:
//
//   - Written: local ids that were inserted or updated during the pass.
//   - Untouched: local ids that were never seen, i.e. rows whose remote
//     counterpart disappeared and which must be deleted.
//
// Every entry carries an explicit state (Unseen or Touched), so a key that is
// present in the set but not processed yet is never confused with a key that
// was never loaded.
//
// # Pass Guard
//
// Guard serializes passes per connection. Concurrent callers asking for a pass
// on the same connection share the result of the pass already in flight
// instead of starting a second one against the same rows.
//
// # Usage
//
//	items := reconcile.NewChangeSet[string]()
//	items.Preload("remote-1", 10, 0xCAFE)
//
//	entry, ok := items.Lookup("remote-1")
//	items.Touch("remote-1", entry.ID, sum, sum != entry.Checksum)
//
//	deleteIDs := items.Untouched()
//	updatedIDs := items.Written()
package reconcile
