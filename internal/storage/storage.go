package storage

import (
	"context"

	"github.com/quickstop/cafebot/internal/domain"
)

// Repository persists the whole store document. Implementations load and
// save the document atomically; callers own the in-memory copy for the
// duration of one inbound event.
type Repository interface {
	Load(ctx context.Context) (*domain.Store, error)
	Save(ctx context.Context, store *domain.Store) error
}
