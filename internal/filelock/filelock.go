// Package filelock serializes writers across processes with an advisory
// lock on a sidecar file.
package filelock

import "os"

const lockFileMode = 0o600

// Lock blocks until it holds an exclusive lock on path, creating the file if
// needed. Call the returned func to release it.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // path built by the caller
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		if err := unlockFile(f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}, nil
}

// With runs fn under the lock at path. fn's error wins over an unlock error.
func With(path string, fn func() error) error {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
