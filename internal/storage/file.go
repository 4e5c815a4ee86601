package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quickstop/cafebot/internal/domain"
)

// File is a JSON-file-backed Repository. Writes go to a temp file in the
// same directory and are renamed into place so a crash mid-write never
// leaves a truncated document.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a file-backed repository at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the store document, returning an empty store when the file
// does not exist yet.
func (f *File) Load(_ context.Context) (*domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewStore(), nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var store domain.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	store.Normalize()
	return &store, nil
}

// Save writes the store document atomically.
func (f *File) Save(_ context.Context, store *domain.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp store: %w", err)
	}
	return nil
}
