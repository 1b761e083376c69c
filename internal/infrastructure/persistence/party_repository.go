package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/party"
	"github.com/sopas/backend/internal/domain/shared"
)

// GormPartyRepository implements party.Repository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

func (r *GormPartyRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, p *party.Party) error {
	return translateWriteError(r.conn(ctx).Save(p).Error)
}

// CreateAll inserts the parties in a single multi-row insert
func (r *GormPartyRepository) CreateAll(ctx context.Context, parties []*party.Party) error {
	if len(parties) == 0 {
		return nil
	}
	return translateWriteError(r.conn(ctx).Create(&parties).Error)
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	var p party.Party
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all parties matching the filter
func (r *GormPartyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]party.Party, error) {
	var parties []party.Party
	query := applyFilter(r.conn(ctx).Model(&party.Party{}), filter, PartySortFields, "created_at")
	if err := query.Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// Count counts all parties
func (r *GormPartyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&party.Party{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a party
func (r *GormPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&party.Party{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxSequence returns the highest customer identifier suffix for the prefix
func (r *GormPartyRepository) MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error) {
	return maxSequence(r.conn(ctx), &party.Party{}, "customer_id", prefix)
}

var _ party.Repository = (*GormPartyRepository)(nil)
