package importer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/party"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/importfile"
)

// PartyImporter bulk-imports party records from a spreadsheet.
type PartyImporter struct {
	parties party.Repository
	alloc   *numbering.Allocator
	txm     shared.TxManager
	records bulk.Repository
	logger  *zap.Logger
}

// NewPartyImporter creates a PartyImporter.
func NewPartyImporter(
	parties party.Repository,
	alloc *numbering.Allocator,
	txm shared.TxManager,
	records bulk.Repository,
	logger *zap.Logger,
) *PartyImporter {
	return &PartyImporter{
		parties: parties,
		alloc:   alloc,
		txm:     txm,
		records: records,
		logger:  logger,
	}
}

// Rules returns the validation rule set for party rows, evaluated in
// declaration order.
func (s *PartyImporter) Rules() []importfile.FieldRule {
	return []importfile.FieldRule{
		importfile.Field("type").Required().Custom(validatePartyType).Build(),
		importfile.Field("company_name").MaxLength(200).Build(),
		importfile.Field("consignee_name").MaxLength(200).Build(),
		importfile.Field("contact_number").MaxLength(50).Build(),
		importfile.Field("email").Email().Build(),
		importfile.Field("gstin").MaxLength(20).Build(),
	}
}

func validatePartyType(value string) error {
	if value == "" {
		return nil // caught by the required check
	}
	switch strings.ToLower(value) {
	case "individual", "company":
		return nil
	default:
		return fmt.Errorf("type must be 'Individual' or 'Company'")
	}
}

// Import runs the whole pipeline for one uploaded file. The file is
// removed on every exit path.
func (s *PartyImporter) Import(ctx context.Context, filePath, fileName string) (*Result, error) {
	defer removeUpload(filePath, s.logger)

	doc, err := parseAndValidate(filePath, s.Rules())
	if err != nil {
		recordOutcome(ctx, s.records, s.logger, numbering.KindParty, fileName, 0, 0, err)
		return nil, err
	}

	// Identifier blocks are reserved per prefix, so rows sharing a prefix
	// number contiguously in file order.
	rowPrefixes := make([]numbering.Prefix, len(doc.Rows))
	counts := make(map[numbering.Prefix]int64)
	for i, row := range doc.Rows {
		prefix := numbering.PartyPrefix(
			row.Get("type"),
			row.Get("company_name"),
			consigneesFromRow(row),
		)
		rowPrefixes[i] = prefix
		counts[prefix]++
	}

	var inserted int
	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		batch := s.alloc.NewBatch(numbering.KindParty)
		for prefix, count := range counts {
			p := prefix
			seed := func(c context.Context) (int64, error) {
				return s.parties.MaxSequence(c, p)
			}
			if err := batch.Reserve(txCtx, p, count, seed); err != nil {
				return err
			}
		}

		entities := make([]*party.Party, 0, len(doc.Rows))
		for i, row := range doc.Rows {
			id, err := batch.Next(rowPrefixes[i])
			if err != nil {
				return err
			}
			p, err := buildParty(id, row)
			if err != nil {
				re := importfile.NewRowError(row.Number, "", importfile.ErrCodeImportValidation, err.Error())
				return &re
			}
			entities = append(entities, p)
		}

		if err := s.parties.CreateAll(txCtx, entities); err != nil {
			return err
		}
		inserted = len(entities)
		return nil
	})

	recordOutcome(ctx, s.records, s.logger, numbering.KindParty, fileName, len(doc.Rows), inserted, err)
	if err != nil {
		return nil, err
	}
	return &Result{TotalRows: len(doc.Rows), InsertedCount: inserted}, nil
}

func buildParty(id numbering.Identifier, row *importfile.Row) (*party.Party, error) {
	partyType := party.TypeIndividual
	if strings.EqualFold(row.Get("type"), string(party.TypeCompany)) {
		partyType = party.TypeCompany
	}

	p, err := party.NewParty(id, partyType, row.Get("company_name"), consigneesFromRow(row))
	if err != nil {
		return nil, err
	}
	if contact, email := row.Get("contact_number"), row.Get("email"); contact != "" || email != "" {
		if err := p.SetContact(contact, email); err != nil {
			return nil, err
		}
	}
	if gstin := row.Get("gstin"); gstin != "" {
		if err := p.SetGSTIN(gstin); err != nil {
			return nil, err
		}
	}
	if role := row.Get("trade_role"); role != "" {
		if err := p.SetTradeRole(party.TradeRole(role)); err != nil {
			return nil, err
		}
	}
	p.SetAddresses(row.Get("shipped_to"), row.Get("bill_to"))
	return p, nil
}

func consigneesFromRow(row *importfile.Row) []string {
	name := strings.TrimSpace(row.Get("consignee_name"))
	if name == "" {
		return nil
	}
	return []string{name}
}
