package state

import "context"

// Versions are the version markers of one remote connection.
type Versions struct {
	// Items is the last-modified marker of the remote index.
	Items int64 `json:"items_version"`
	// Containers is the combined checksum of all remote playlists.
	Containers int64 `json:"containers_version"`
}

// Store persists Versions per connection index.
type Store interface {
	// Load returns the stored versions, or zero versions when none exist.
	Load(ctx context.Context, index int) (Versions, error)
	// Save replaces the stored versions.
	Save(ctx context.Context, index int, v Versions) error
	// Reset forgets the stored versions, forcing a full pass next time.
	Reset(ctx context.Context, index int) error
}
