package importer

import (
	"context"

	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/store"
	"github.com/sopas/backend/internal/infrastructure/importfile"
)

// StoreImporter bulk-imports store records from a spreadsheet.
type StoreImporter struct {
	stores  store.Repository
	alloc   *numbering.Allocator
	txm     shared.TxManager
	records bulk.Repository
	logger  *zap.Logger
}

// NewStoreImporter creates a StoreImporter.
func NewStoreImporter(
	stores store.Repository,
	alloc *numbering.Allocator,
	txm shared.TxManager,
	records bulk.Repository,
	logger *zap.Logger,
) *StoreImporter {
	return &StoreImporter{
		stores:  stores,
		alloc:   alloc,
		txm:     txm,
		records: records,
		logger:  logger,
	}
}

// Rules returns the validation rule set for store rows.
func (s *StoreImporter) Rules() []importfile.FieldRule {
	return []importfile.FieldRule{
		importfile.Field("name").Required().MaxLength(200).Build(),
		importfile.Field("address_line1").Required().Build(),
		importfile.Field("city").Required().MaxLength(100).Build(),
		importfile.Field("state").Required().MaxLength(100).Build(),
		importfile.Field("pin_code").MaxLength(10).Build(),
	}
}

// Import runs the whole pipeline for one uploaded file. fileName is the
// user-facing name recorded in import history.
func (s *StoreImporter) Import(ctx context.Context, filePath, fileName string) (*Result, error) {
	defer removeUpload(filePath, s.logger)

	doc, err := parseAndValidate(filePath, s.Rules())
	if err != nil {
		recordOutcome(ctx, s.records, s.logger, numbering.KindStore, fileName, 0, 0, err)
		return nil, err
	}

	rowPrefixes := make([]numbering.Prefix, len(doc.Rows))
	counts := make(map[numbering.Prefix]int64)
	for i, row := range doc.Rows {
		prefix := numbering.NamePrefix(row.Get("name"), numbering.StoreFallbackPrefix)
		rowPrefixes[i] = prefix
		counts[prefix]++
	}

	var inserted int
	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		batch := s.alloc.NewBatch(numbering.KindStore)
		for prefix, count := range counts {
			p := prefix
			seed := func(c context.Context) (int64, error) {
				return s.stores.MaxSequence(c, p)
			}
			if err := batch.Reserve(txCtx, p, count, seed); err != nil {
				return err
			}
		}

		entities := make([]*store.Store, 0, len(doc.Rows))
		for i, row := range doc.Rows {
			id, err := batch.Next(rowPrefixes[i])
			if err != nil {
				return err
			}
			st, err := buildStore(id, row)
			if err != nil {
				re := importfile.NewRowError(row.Number, "", importfile.ErrCodeImportValidation, err.Error())
				return &re
			}
			entities = append(entities, st)
		}

		if err := s.stores.CreateAll(txCtx, entities); err != nil {
			return err
		}
		inserted = len(entities)
		return nil
	})

	recordOutcome(ctx, s.records, s.logger, numbering.KindStore, fileName, len(doc.Rows), inserted, err)
	if err != nil {
		return nil, err
	}
	return &Result{TotalRows: len(doc.Rows), InsertedCount: inserted}, nil
}

func buildStore(id numbering.Identifier, row *importfile.Row) (*store.Store, error) {
	st, err := store.NewStore(id, row.Get("name"), row.Get("address_line1"), row.Get("city"), row.Get("state"))
	if err != nil {
		return nil, err
	}
	st.AddressLine2 = row.Get("address_line2")
	st.PinCode = row.Get("pin_code")
	return st, nil
}
