package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sopas/backend/internal/domain/numbering"
)

// Repository is the persistence port for stores.
type Repository interface {
	Save(ctx context.Context, s *Store) error
	CreateAll(ctx context.Context, stores []*Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByApproval(ctx context.Context, approved bool) ([]Store, error)
	Delete(ctx context.Context, id uuid.UUID) error

	MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error)
}
