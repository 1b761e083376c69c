package importer

import (
	"context"

	"github.com/sopas/backend/internal/domain/bulk"
)

// HistoryService exposes past import outcomes.
type HistoryService struct {
	records bulk.Repository
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(records bulk.Repository) *HistoryService {
	return &HistoryService{records: records}
}

// Recent returns the most recent import records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]bulk.ImportRecord, error) {
	return s.records.FindRecent(ctx, limit)
}
