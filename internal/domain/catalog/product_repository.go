package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// Repository is the persistence port for products.
type Repository interface {
	Save(ctx context.Context, p *Product) error
	CreateAll(ctx context.Context, products []*Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error)
}
