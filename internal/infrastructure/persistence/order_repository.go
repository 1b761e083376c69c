package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/trade"
)

// GormOrderRepository implements trade.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save creates or updates a purchase order
func (r *GormOrderRepository) Save(ctx context.Context, o *trade.PurchaseOrder) error {
	return translateWriteError(r.conn(ctx).Save(o).Error)
}

// FindByID finds a purchase order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var o trade.PurchaseOrder
	if err := r.conn(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderID finds a purchase order by its allocated order identifier
func (r *GormOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*trade.PurchaseOrder, error) {
	var o trade.PurchaseOrder
	if err := r.conn(ctx).First(&o, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds all purchase orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := applyFilter(r.conn(ctx).Model(&trade.PurchaseOrder{}), filter, OrderSortFields, "created_at")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts all purchase orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&trade.PurchaseOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a purchase order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&trade.PurchaseOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxSequence returns the highest order identifier suffix for the prefix
func (r *GormOrderRepository) MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error) {
	return maxSequence(r.conn(ctx), &trade.PurchaseOrder{}, "order_id", prefix)
}

var _ trade.Repository = (*GormOrderRepository)(nil)
