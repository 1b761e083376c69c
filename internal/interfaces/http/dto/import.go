package dto

import (
	"time"

	"github.com/sopas/backend/internal/application/importer"
	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/infrastructure/importfile"
)

// ImportResponse is returned after a successful bulk import
type ImportResponse struct {
	FileName     string `json:"file_name"`
	TotalRows    int    `json:"total_rows"`
	InsertedRows int    `json:"inserted_rows"`
}

// NewImportResponse builds the response from an import result
func NewImportResponse(fileName string, result *importer.Result) ImportResponse {
	return ImportResponse{
		FileName:     fileName,
		TotalRows:    result.TotalRows,
		InsertedRows: result.InsertedCount,
	}
}

// ImportRejection describes why an uploaded file was rejected. The whole
// batch is refused on the first invalid row, so at most one row error is
// reported.
type ImportRejection struct {
	FileName string               `json:"file_name"`
	RowError *importfile.RowError `json:"row_error,omitempty"`
	Message  string               `json:"message"`
}

// ImportRecordResponse is one entry in the import history
type ImportRecordResponse struct {
	ID            string    `json:"id"`
	EntityKind    string    `json:"entity_kind"`
	FileName      string    `json:"file_name"`
	TotalRows     int       `json:"total_rows"`
	InsertedRows  int       `json:"inserted_rows"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// NewImportRecordResponse converts an audit record for API output
func NewImportRecordResponse(r *bulk.ImportRecord) ImportRecordResponse {
	return ImportRecordResponse{
		ID:            r.ID.String(),
		EntityKind:    string(r.EntityKind),
		FileName:      r.FileName,
		TotalRows:     r.TotalRows,
		InsertedRows:  r.InsertedRows,
		Status:        string(r.Status),
		FailureReason: r.FailureReason,
		CompletedAt:   r.CompletedAt,
	}
}

// NewImportRecordListResponse converts a slice of audit records
func NewImportRecordListResponse(records []bulk.ImportRecord) []ImportRecordResponse {
	out := make([]ImportRecordResponse, len(records))
	for i := range records {
		out[i] = NewImportRecordResponse(&records[i])
	}
	return out
}
