package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the output root while a run is active.
const LockFileName = ".corpusprep.lock"

// ErrRunInProgress reports that another run holds the output root.
var ErrRunInProgress = errors.New("another corpusprep run is using this output root")

func acquireLock(outputRoot string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(outputRoot, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, lock.Path())
	}
	return lock, nil
}
