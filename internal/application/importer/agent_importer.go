package importer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/importfile"
)

// AgentImporter bulk-imports agent records from a spreadsheet.
type AgentImporter struct {
	agents  agent.Repository
	alloc   *numbering.Allocator
	txm     shared.TxManager
	records bulk.Repository
	logger  *zap.Logger
}

// NewAgentImporter creates an AgentImporter.
func NewAgentImporter(
	agents agent.Repository,
	alloc *numbering.Allocator,
	txm shared.TxManager,
	records bulk.Repository,
	logger *zap.Logger,
) *AgentImporter {
	return &AgentImporter{
		agents:  agents,
		alloc:   alloc,
		txm:     txm,
		records: records,
		logger:  logger,
	}
}

// Rules returns the validation rule set for agent rows.
func (s *AgentImporter) Rules() []importfile.FieldRule {
	return []importfile.FieldRule{
		importfile.Field("name").Required().MaxLength(200).Build(),
		importfile.Field("type").Required().Custom(validateAgentType).Build(),
		importfile.Field("contact_number").MaxLength(50).Build(),
		importfile.Field("email").Email().Build(),
		importfile.Field("company").MaxLength(200).Build(),
		importfile.Field("gstin").MaxLength(20).Build(),
	}
}

func validateAgentType(value string) error {
	if value == "" {
		return nil // caught by the required check
	}
	switch strings.ToLower(value) {
	case string(agent.TypeBuyer), string(agent.TypeSupplier):
		return nil
	default:
		return fmt.Errorf("type must be 'buyer' or 'supplier'")
	}
}

// Import runs the whole pipeline for one uploaded file. fileName is the
// user-facing name recorded in import history.
func (s *AgentImporter) Import(ctx context.Context, filePath, fileName string) (*Result, error) {
	defer removeUpload(filePath, s.logger)

	doc, err := parseAndValidate(filePath, s.Rules())
	if err != nil {
		recordOutcome(ctx, s.records, s.logger, numbering.KindAgent, fileName, 0, 0, err)
		return nil, err
	}

	rowPrefixes := make([]numbering.Prefix, len(doc.Rows))
	counts := make(map[numbering.Prefix]int64)
	for i, row := range doc.Rows {
		prefix := numbering.NamePrefix(row.Get("name"), numbering.AgentFallbackPrefix)
		rowPrefixes[i] = prefix
		counts[prefix]++
	}

	var inserted int
	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		batch := s.alloc.NewBatch(numbering.KindAgent)
		for prefix, count := range counts {
			p := prefix
			seed := func(c context.Context) (int64, error) {
				return s.agents.MaxSequence(c, p)
			}
			if err := batch.Reserve(txCtx, p, count, seed); err != nil {
				return err
			}
		}

		entities := make([]*agent.Agent, 0, len(doc.Rows))
		for i, row := range doc.Rows {
			id, err := batch.Next(rowPrefixes[i])
			if err != nil {
				return err
			}
			a, err := buildAgent(id, row)
			if err != nil {
				re := importfile.NewRowError(row.Number, "", importfile.ErrCodeImportValidation, err.Error())
				return &re
			}
			entities = append(entities, a)
		}

		if err := s.agents.CreateAll(txCtx, entities); err != nil {
			return err
		}
		inserted = len(entities)
		return nil
	})

	recordOutcome(ctx, s.records, s.logger, numbering.KindAgent, fileName, len(doc.Rows), inserted, err)
	if err != nil {
		return nil, err
	}
	return &Result{TotalRows: len(doc.Rows), InsertedCount: inserted}, nil
}

func buildAgent(id numbering.Identifier, row *importfile.Row) (*agent.Agent, error) {
	a, err := agent.NewAgent(id, row.Get("name"), agent.AgentType(strings.ToLower(row.Get("type"))))
	if err != nil {
		return nil, err
	}
	a.SetContact(row.Get("contact_number"), row.Get("email"), row.Get("company"))
	a.SetAddress(row.Get("address_line1"), row.Get("city"), row.Get("state"))
	if gstin := row.Get("gstin"); gstin != "" {
		a.GSTIN = strings.ToUpper(gstin)
	}
	return a, nil
}
