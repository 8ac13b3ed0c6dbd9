// Package state persists the two version markers of every remote connection
// between passes.
//
// The items version is the last-modified marker of the remote index; the
// containers version combines the checksums of all playlists. Both are read
// at pass start and written only after a pass fully succeeded, so a failed
// pass is retried against the same remote state.
//
// Two backends implement Store:
//
//   - GormStore keeps one row per connection in the sync_states table of the
//     local store.
//   - ObjectStore keeps one JSON object per connection in a minio bucket.
//
// A connection without stored state loads as zero versions.
package state
