// Package runlock serializes pipeline runs over the shared audio
// directory. Overlapping cron invocations would otherwise race the
// dedup-check-then-write sequence.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is an advisory file lock held for the duration of one run.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock file inside dataDir without blocking. A second
// instance fails fast instead of queueing behind a long batch.
func Acquire(dataDir string) (*Lock, error) {
	fl := flock.New(filepath.Join(dataDir, "newscollector.lock"))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another run holds %s", fl.Path())
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
