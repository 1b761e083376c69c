// Package catalogapp implements product catalog use cases. Product
// identifiers are numbered per category prefix, so a malformed category
// is a loud validation error, never a silent fallback.
package catalogapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/catalog"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

const allocateRetries = 3

// Service implements product use cases.
type Service struct {
	products catalog.Repository
	alloc    *numbering.Allocator
	txm      shared.TxManager
	logger   *zap.Logger
}

// NewService creates a catalog Service.
func NewService(products catalog.Repository, alloc *numbering.Allocator, txm shared.TxManager, logger *zap.Logger) *Service {
	return &Service{products: products, alloc: alloc, txm: txm, logger: logger}
}

// CreateInput carries the attributes for a new product.
type CreateInput struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category" binding:"required"`
	UOM      string          `json:"uom"`
	Price    decimal.Decimal `json:"price"`
}

// Create derives the category prefix, allocates a product identifier and
// persists the product.
func (s *Service) Create(ctx context.Context, input CreateInput) (*catalog.Product, error) {
	prefix, err := catalog.Prefix(input.Category)
	if err != nil {
		return nil, err
	}

	for range allocateRetries {
		var created *catalog.Product
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			id, err := s.alloc.Allocate(txCtx, numbering.KindProduct, prefix, s.seed(prefix))
			if err != nil {
				return err
			}
			p, err := catalog.NewProduct(id, input.Name, input.Category, input.Price)
			if err != nil {
				return err
			}
			if input.UOM != "" {
				p.SetUOM(input.UOM)
			}
			if err := s.products.Save(txCtx, p); err != nil {
				return err
			}
			created = p
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		s.logger.Warn("Product identifier collision, resyncing sequence",
			zap.String("prefix", string(prefix)))
		if rErr := s.alloc.Resync(ctx, numbering.KindProduct, prefix, s.seed(prefix)); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List returns a page of products and the total count.
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	items, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update replaces a product's price and unit of measure. Name and
// category are fixed after creation since the identifier encodes the
// category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, uom string, price decimal.Decimal) (*catalog.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uom != "" {
		p.SetUOM(uom)
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) seed(prefix numbering.Prefix) numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.products.MaxSequence(ctx, prefix)
	}
}
