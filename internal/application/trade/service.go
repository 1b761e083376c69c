// Package tradeapp implements purchase order use cases. All orders share
// the fixed OID numbering space.
package tradeapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/trade"
)

const allocateRetries = 3

// Service implements purchase order use cases.
type Service struct {
	orders trade.Repository
	alloc  *numbering.Allocator
	txm    shared.TxManager
	logger *zap.Logger
}

// NewService creates an order Service.
func NewService(orders trade.Repository, alloc *numbering.Allocator, txm shared.TxManager, logger *zap.Logger) *Service {
	return &Service{orders: orders, alloc: alloc, txm: txm, logger: logger}
}

// CreateInput carries the attributes for a new purchase order.
type CreateInput struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
	PartyID     *uuid.UUID      `json:"party_id"`
}

// Create allocates an OID identifier and persists the order.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*trade.PurchaseOrder, error) {
	for range allocateRetries {
		var created *trade.PurchaseOrder
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			id, err := s.alloc.Allocate(txCtx, numbering.KindOrder, numbering.OrderPrefix, s.seed())
			if err != nil {
				return err
			}
			o, err := trade.NewPurchaseOrder(id, userID, input.ProductName, input.Quantity, input.Price)
			if err != nil {
				return err
			}
			o.PartyID = input.PartyID
			if err := s.orders.Save(txCtx, o); err != nil {
				return err
			}
			created = o
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		s.logger.Warn("Order identifier collision, resyncing sequence")
		if rErr := s.alloc.Resync(ctx, numbering.KindOrder, numbering.OrderPrefix, s.seed()); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns one order by surrogate key.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// GetByOrderID returns one order by its public OID identifier.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*trade.PurchaseOrder, error) {
	return s.orders.FindByOrderID(ctx, orderID)
}

// List returns a page of orders and the total count.
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	items, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MarkBOMCreated transitions an order once its bill of materials exists.
func (s *Service) MarkBOMCreated(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.MarkBOMCreated(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// AttachDesignFile records an uploaded design file on the order.
func (s *Service) AttachDesignFile(ctx context.Context, id uuid.UUID, fileURL, comment string) (*trade.PurchaseOrder, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.AttachDesignFile(fileURL, comment); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orders.Delete(ctx, id)
}

func (s *Service) seed() numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.orders.MaxSequence(ctx, numbering.OrderPrefix)
	}
}
