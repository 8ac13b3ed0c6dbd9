package synchronizer

import (
	"fmt"
	"time"
)

const (
	// VersionModeHash combines playlist checksums through xxhash in id order.
	VersionModeHash = "hash"
	// VersionModeSum combines playlist checksums by addition modulo 2^32-1.
	VersionModeSum = "sum"

	// StateBackendDatabase keeps version markers in the local store.
	StateBackendDatabase = "database"
	// StateBackendObject keeps version markers in object storage.
	StateBackendObject = "object"
)

// Config holds configuration for the synchronizer.
type Config struct {
	// Interval between periodic passes. Zero disables the loop.
	Interval time.Duration `mapstructure:"interval" default:"1h"`
	// StateBackend selects where version markers are persisted.
	StateBackend string `mapstructure:"state_backend" default:"database"`
	// StatePrefix is the object name prefix of the object backend.
	StatePrefix string `mapstructure:"state_prefix" default:"state/"`
	// VersionMode selects how playlist checksums are combined.
	VersionMode string `mapstructure:"version_mode" default:"hash"`
	// Concurrency bounds how many remotes are synchronized at once.
	Concurrency int `mapstructure:"concurrency" default:"2"`
	// DeleteBatchSize bounds the ids per DELETE statement.
	DeleteBatchSize int `mapstructure:"delete_batch_size" default:"500"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.VersionMode {
	case VersionModeHash, VersionModeSum:
	default:
		return fmt.Errorf("unknown version mode %q", c.VersionMode)
	}
	switch c.StateBackend {
	case StateBackendDatabase, StateBackendObject:
	default:
		return fmt.Errorf("unknown state backend %q", c.StateBackend)
	}
	if c.Interval < 0 {
		return fmt.Errorf("sync interval must not be negative")
	}
	return nil
}

func (c Config) batchSize() int {
	if c.DeleteBatchSize <= 0 {
		return 500
	}
	return c.DeleteBatchSize
}
