package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// Repository is the persistence port for parties.
type Repository interface {
	Save(ctx context.Context, p *Party) error
	// CreateAll inserts the parties in a single multi-row insert. Either
	// every row is persisted or none is.
	CreateAll(ctx context.Context, parties []*Party) error
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Party, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// MaxSequence returns the highest numeric identifier suffix persisted
	// for the prefix, 0 when none exists. Seeds the sequence counter.
	MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error)
}
