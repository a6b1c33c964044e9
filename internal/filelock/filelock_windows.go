//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// pollInterval is how long lockFile sleeps between attempts. LockFileEx is
// called with LOCKFILE_FAIL_IMMEDIATELY and never blocks.
const pollInterval = time.Millisecond

// lockRange covers the first byte of the file, which is all callers agree on.
const lockRange = 1

func lockFile(f *os.File) error {
	const flags = windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY
	h := windows.Handle(f.Fd())
	for {
		err := windows.LockFileEx(h, flags, 0, lockRange, 0, new(windows.Overlapped))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
			time.Sleep(pollInterval)
		default:
			return err
		}
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRange, 0, new(windows.Overlapped))
}
