package state

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FileLock is an advisory flock held on a dedicated lock file.
// The lock file is never the ordering file itself.
type FileLock struct {
	path string
	f    *os.File
}

// AcquireShared blocks until a shared lock on path is held
func AcquireShared(path string) (*FileLock, error) {
	return acquire(path, unix.LOCK_SH)
}

// AcquireExclusive blocks until an exclusive lock on path is held
func AcquireExclusive(path string) (*FileLock, error) {
	return acquire(path, unix.LOCK_EX)
}

func acquire(path string, how int) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	for {
		err = unix.Flock(int(f.Fd()), how)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	return &FileLock{path: path, f: f}, nil
}

// Release drops the lock and closes the lock file. Safe to call twice.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, unlockErr)
	}
	return closeErr
}

// WithShared runs fn while holding a shared lock on path
func WithShared(path string, fn func() error) error {
	lock, err := AcquireShared(path)
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}

// WithExclusive runs fn while holding an exclusive lock on path
func WithExclusive(path string, fn func() error) error {
	lock, err := AcquireExclusive(path)
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}
