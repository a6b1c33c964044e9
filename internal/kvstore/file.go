package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/taskboard/internal/filelock"
)

const (
	fileMode    = 0o600
	dirMode     = 0o750
	lockName    = ".lock"
	valueSuffix = ".json"
)

// FileStore keeps one file per key. Writes go to a temp file that is renamed
// into place under an advisory lock, so readers never observe a partial value.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the value files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+valueSuffix)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return filelock.With(filepath.Join(s.dir, lockName), func() error {
		tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(value); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			return fmt.Errorf("writing %s: %w", key, err)
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("closing %s: %w", key, err)
		}
		if err := os.Chmod(tmpName, fileMode); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("chmod %s: %w", key, err)
		}
		if err := os.Rename(tmpName, s.path(key)); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("replacing %s: %w", key, err)
		}
		return nil
	})
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return filelock.With(filepath.Join(s.dir, lockName), func() error {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", key, err)
		}
		return nil
	})
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
