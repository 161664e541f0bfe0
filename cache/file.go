package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// FileStore is a Store that keeps one file per key under a directory, so
// entries survive process restarts.
//
// File names are the SHA-256 of the key, sharded into two-character
// subdirectories. Writes go through a temp file and rename, so a reader
// never observes a partially written value.
type FileStore struct {
	dir  string
	perm os.FileMode
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache: file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create store directory: %w", err)
	}
	return &FileStore{dir: dir, perm: 0o644}, nil
}

// Dir returns the root directory of the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(s.dir, name[:2], name+".json")
}

// Get returns the stored value for key.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: read entry: %w", err)
	}
	return string(data), true, nil
}

// Set stores value under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return wrapWriteErr(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".entry-*")
	if err != nil {
		return wrapWriteErr(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return wrapWriteErr(err)
	}
	if err := tmp.Close(); err != nil {
		return wrapWriteErr(err)
	}
	if err := os.Chmod(tmp.Name(), s.perm); err != nil {
		return wrapWriteErr(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// wrapWriteErr maps a full disk onto ErrQuotaExceeded.
func wrapWriteErr(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("cache: write entry: %w", err)
}

var _ Store = (*FileStore)(nil)
