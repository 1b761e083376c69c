// Package importer orchestrates bulk spreadsheet imports: parse the
// uploaded file, validate every row up front, allocate identifiers, and
// persist the whole batch in one transaction. Any reported failure means
// zero rows were persisted.
package importer

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/infrastructure/importfile"
)

// maxValidationErrors caps how many row errors are collected before the
// validator stops recording. Only the first is reported to the caller.
const maxValidationErrors = 100

// Result reports a successful import.
type Result struct {
	TotalRows     int `json:"total_rows"`
	InsertedCount int `json:"inserted_count"`
}

// parseAndValidate loads the file and runs the rule set over every row.
// Validation is front-loaded: it completes for the whole file before the
// caller touches storage, so a failure cannot leave partial imports.
func parseAndValidate(path string, rules []importfile.FieldRule) (*importfile.Document, error) {
	doc, err := importfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	validator := importfile.NewFieldValidator(rules, maxValidationErrors)
	if rowErr := validator.ValidateAll(doc.Rows); rowErr != nil {
		return nil, rowErr
	}
	return doc, nil
}

// removeUpload deletes the spooled upload. Runs on every exit path.
func removeUpload(path string, logger *zap.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove uploaded file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// recordOutcome persists an import history entry. History is advisory, a
// write failure is logged but never turns a finished import into an error.
func recordOutcome(
	ctx context.Context,
	records bulk.Repository,
	logger *zap.Logger,
	kind numbering.EntityKind,
	fileName string,
	totalRows, inserted int,
	importErr error,
) {
	var rec *bulk.ImportRecord
	if importErr != nil {
		rec = bulk.NewFailedRecord(kind, fileName, totalRows, importErr.Error())
	} else {
		rec = bulk.NewCompletedRecord(kind, fileName, totalRows, inserted)
	}
	if err := records.Save(ctx, rec); err != nil {
		logger.Warn("Failed to save import record",
			zap.String("kind", string(kind)),
			zap.String("file", fileName),
			zap.Error(err),
		)
	}
}
