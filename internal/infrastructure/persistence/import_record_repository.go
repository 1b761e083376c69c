package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/bulk"
)

// GormImportRecordRepository implements bulk.Repository using GORM
type GormImportRecordRepository struct {
	db *gorm.DB
}

// NewGormImportRecordRepository creates a new GormImportRecordRepository
func NewGormImportRecordRepository(db *gorm.DB) *GormImportRecordRepository {
	return &GormImportRecordRepository{db: db}
}

func (r *GormImportRecordRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save persists an import record
func (r *GormImportRecordRepository) Save(ctx context.Context, rec *bulk.ImportRecord) error {
	return r.conn(ctx).Save(rec).Error
}

// FindRecent returns the most recent import records, newest first
func (r *GormImportRecordRepository) FindRecent(ctx context.Context, limit int) ([]bulk.ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []bulk.ImportRecord
	if err := r.conn(ctx).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

var _ bulk.Repository = (*GormImportRecordRepository)(nil)
