package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quickstop/cafebot/internal/domain"
)

// Memory is an in-memory Repository used in tests. It round-trips through
// JSON so tests observe the same serialization behavior as real stores.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored document, or an empty store.
func (m *Memory) Load(_ context.Context) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return domain.NewStore(), nil
	}
	var store domain.Store
	if err := json.Unmarshal(m.data, &store); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	store.Normalize()
	return &store, nil
}

// Save serializes and retains the document.
func (m *Memory) Save(_ context.Context, store *domain.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}
