package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgervault/ledgervault/internal/domain/port/core"
)

// FileStore is a BlobStore that keeps each key as one file inside a data
// directory. Writes go to a temp file first and are renamed into place, so a
// crash mid-write never leaves a truncated value behind.
type FileStore struct {
	dir    string
	logger core.Logger
}

// NewFileStore creates the data directory if needed and returns a store
// rooted at it
func NewFileStore(dir string, logger core.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir returns the backing directory
func (s *FileStore) Dir() string {
	return s.dir
}

// path maps a key to its backing file. Keys are simple identifiers; path
// separators are rejected to keep everything inside the data directory.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Get returns the value for key; the second result is false when absent
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes the value for key atomically, replacing any previous value
func (s *FileStore) Put(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for blob %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close blob %s: %w", key, err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit blob %s: %w", key, err)
	}

	s.logger.Debug("Blob written", map[string]any{
		"key":   key,
		"bytes": len(data),
	})
	return nil
}

// Delete removes the key; deleting an absent key is a no-op
func (s *FileStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
