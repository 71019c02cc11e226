package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the lock file name inside StoreConfig.BasePath.
const LockFile = ".notes.lock"

// Lock is a cross-process exclusive lock on a data directory.
// Only one process may index or query a given store at a time.
type Lock struct {
	flock  *flock.Flock
	locked bool
}

// NewLock creates an unacquired lock for cfg.BasePath.
func NewLock(cfg StoreConfig) *Lock {
	return &Lock{flock: flock.New(filepath.Join(cfg.BasePath, LockFile))}
}

// TryLock acquires the lock without blocking. It returns ErrLocked if another
// process holds it.
func (l *Lock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.flock.Path(), err)
	}
	if !acquired {
		return fmt.Errorf("%w: %s", ErrLocked, l.flock.Path())
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. Calling it on an unheld lock is a no-op.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false

	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.flock.Path(), err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.flock.Path()
}
