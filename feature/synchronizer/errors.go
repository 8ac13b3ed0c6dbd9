package synchronizer

import (
	"errors"
	"fmt"
)

var (
	// ErrRemote marks a failed or malformed remote request. The pass was
	// rolled back and version markers were not advanced.
	ErrRemote = errors.New("remote catalog failure")
	// ErrStore marks a local store failure. The pass was rolled back and
	// version markers were not advanced.
	ErrStore = errors.New("local store failure")
	// ErrPropagation marks a failure to update the live model after the
	// local store committed. Store and live model may diverge until the next
	// successful pass.
	ErrPropagation = errors.New("live model propagation failure")
)

func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemote, op, err)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// classify wraps err as a store failure unless it is already classified.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrRemote) || errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
