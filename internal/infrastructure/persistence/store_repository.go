package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/store"
)

// GormStoreRepository implements store.Repository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return translateWriteError(r.conn(ctx).Save(s).Error)
}

// CreateAll inserts the stores in a single multi-row insert
func (r *GormStoreRepository) CreateAll(ctx context.Context, stores []*store.Store) error {
	if len(stores) == 0 {
		return nil
	}
	return translateWriteError(r.conn(ctx).Create(&stores).Error)
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.conn(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByApproval finds stores by approval state
func (r *GormStoreRepository) FindByApproval(ctx context.Context, approved bool) ([]store.Store, error) {
	var stores []store.Store
	if err := r.conn(ctx).
		Where("approved = ?", approved).
		Order("created_at").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Delete deletes a store
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxSequence returns the highest store identifier suffix for the prefix
func (r *GormStoreRepository) MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error) {
	return maxSequence(r.conn(ctx), &store.Store{}, "store_id", prefix)
}

var _ store.Repository = (*GormStoreRepository)(nil)
