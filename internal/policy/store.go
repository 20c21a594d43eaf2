// internal/policy/store.go
//
// Byte-level persistence for the policy table.
// Every backend holds exactly one serialized table under one name, and
// returns ErrNotFound when nothing has been written yet. Encoding lives in
// persist.go so every backend round-trips identically.
//
// Backends:
//   - MemoryStore: process-local, for tests and throwaway play.
//   - FileStore:   JSON file with atomic replace (default).
//   - SQLStore:    row in the SQLite database shared with round history.
//   - BadgerStore: key in an embedded Badger directory.
//   - RedisStore:  key in Redis, one key per player when shared.

package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persistence contract consumed by Load and Save.
type Store interface {
	// Name identifies the backing resource in logs and errors.
	Name() string

	// Read returns the stored bytes or ErrNotFound.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes.
	Write(ctx context.Context, data []byte) error
}

// MemoryStore keeps the serialized table in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

// FileStore keeps the table in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path. The file need not exist yet.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (f *FileStore) Name() string { return f.path }

func (f *FileStore) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStoreIO, f.path, err)
	}
	return data, nil
}

// Write replaces the file atomically: readers see the old table or the new
// one, never a partial write.
func (f *FileStore) Write(ctx context.Context, data []byte) error {
	if err := writeFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStoreIO, f.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}
