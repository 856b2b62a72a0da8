//go:build windows

package modelzoo

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// fileLock serializes installs across processes using LockFileEx()
// mandatory locking. The lock file lives beside the model directory so
// the directory itself only ever appears fully populated.
type fileLock struct {
	file   *os.File
	locked bool
}

func newFileLock(path string) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	return &fileLock{file: file}, nil
}

// Lock acquires the exclusive lock, polling with backoff until it is
// acquired, the timeout expires or ctx is canceled.
func (l *fileLock) Lock(ctx context.Context, timeout time.Duration) error {
	if l.locked {
		return nil
	}

	deadline := time.Now().Add(timeout)
	sleep := 10 * time.Millisecond

	for {
		err := windows.LockFileEx(
			windows.Handle(l.file.Fd()),
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0,
			1, 0,
			&windows.Overlapped{},
		)
		if err == nil {
			l.locked = true
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %v", ErrLockTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		if sleep < 100*time.Millisecond {
			sleep *= 2
		}
	}
}

// Unlock releases the lock and closes the lock file. Safe to call
// multiple times.
func (l *fileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	var err error
	if l.locked {
		err = windows.UnlockFileEx(
			windows.Handle(l.file.Fd()),
			0,
			1, 0,
			&windows.Overlapped{},
		)
	}

	_ = l.file.Close()
	l.file = nil
	l.locked = false

	return err
}
