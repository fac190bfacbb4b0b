package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a contended lock is retried.
const lockRetry = 50 * time.Millisecond

// FileLock is a cross-process advisory lock on a lock file.
type FileLock struct {
	fl *flock.Flock
}

// NewFileLock returns a lock on path, creating its directory if needed.
func NewFileLock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &FileLock{fl: flock.New(path)}, nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string { return l.fl.Path() }

// Lock acquires the lock, waiting until it is free or ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	ok, err := l.fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("locking %s: %w", l.fl.Path(), err)
	}
	if !ok {
		return fmt.Errorf("locking %s: %w", l.fl.Path(), ctx.Err())
	}
	return nil
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *FileLock) TryLock() (bool, error) {
	return l.fl.TryLock()
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	return l.fl.Unlock()
}

// WithLock runs fn while holding the lock at path.
func WithLock(ctx context.Context, path string, fn func() error) error {
	l, err := NewFileLock(path)
	if err != nil {
		return err
	}
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }()
	return fn()
}
