package bulk

import (
	"context"
	"time"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// ImportStatus is the outcome of one bulk upload.
type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRecord is the audit trail entry for one bulk upload: which entity
// kind, which file, how many rows made it in, and why it failed if it did.
type ImportRecord struct {
	shared.BaseEntity
	EntityKind    numbering.EntityKind `gorm:"type:varchar(20);not null;index"`
	FileName      string               `gorm:"type:varchar(255);not null"`
	TotalRows     int                  `gorm:"not null;default:0"`
	InsertedRows  int                  `gorm:"not null;default:0"`
	Status        ImportStatus         `gorm:"type:varchar(20);not null"`
	FailureReason string               `gorm:"type:text"`
	CompletedAt   time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImportRecord) TableName() string {
	return "import_records"
}

// NewCompletedRecord creates the audit entry for a successful import.
func NewCompletedRecord(kind numbering.EntityKind, fileName string, totalRows, insertedRows int) *ImportRecord {
	return &ImportRecord{
		BaseEntity:   shared.NewBaseEntity(),
		EntityKind:   kind,
		FileName:     fileName,
		TotalRows:    totalRows,
		InsertedRows: insertedRows,
		Status:       ImportStatusCompleted,
		CompletedAt:  time.Now(),
	}
}

// NewFailedRecord creates the audit entry for a rejected import. Inserted
// rows are always zero: failed batches persist nothing.
func NewFailedRecord(kind numbering.EntityKind, fileName string, totalRows int, reason string) *ImportRecord {
	return &ImportRecord{
		BaseEntity:    shared.NewBaseEntity(),
		EntityKind:    kind,
		FileName:      fileName,
		TotalRows:     totalRows,
		Status:        ImportStatusFailed,
		FailureReason: reason,
		CompletedAt:   time.Now(),
	}
}

// Repository is the persistence port for import records.
type Repository interface {
	Save(ctx context.Context, r *ImportRecord) error
	FindRecent(ctx context.Context, limit int) ([]ImportRecord, error)
}
