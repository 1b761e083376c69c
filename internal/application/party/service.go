// Package partyapp implements party (customer) use cases.
package partyapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/party"
	"github.com/sopas/backend/internal/domain/shared"
)

// allocateRetries bounds how often a create is retried after an
// identifier collision. Collisions happen when rows were inserted out of
// band, past the sequence counter.
const allocateRetries = 3

// Service implements party use cases.
type Service struct {
	parties party.Repository
	alloc   *numbering.Allocator
	txm     shared.TxManager
	logger  *zap.Logger
}

// NewService creates a party Service.
func NewService(parties party.Repository, alloc *numbering.Allocator, txm shared.TxManager, logger *zap.Logger) *Service {
	return &Service{parties: parties, alloc: alloc, txm: txm, logger: logger}
}

// CreateInput carries the attributes for a new party.
type CreateInput struct {
	Type           string   `json:"type" binding:"required"`
	CompanyName    string   `json:"company_name"`
	ConsigneeNames []string `json:"consignee_names"`
	TradeRole      string   `json:"trade_role"`
	ContactNumber  string   `json:"contact_number"`
	Email          string   `json:"email"`
	GSTIN          string   `json:"gstin"`
	ShippedTo      string   `json:"shipped_to"`
	BillTo         string   `json:"bill_to"`
}

// UpdateInput carries the attributes for a party update. Changing
// identity attributes can re-derive the customer identifier.
type UpdateInput struct {
	Type           string   `json:"type" binding:"required"`
	CompanyName    string   `json:"company_name"`
	ConsigneeNames []string `json:"consignee_names"`
	TradeRole      string   `json:"trade_role"`
	ContactNumber  string   `json:"contact_number"`
	Email          string   `json:"email"`
	GSTIN          string   `json:"gstin"`
	ShippedTo      string   `json:"shipped_to"`
	BillTo         string   `json:"bill_to"`
}

// Create allocates a customer identifier and persists the party. The
// allocation and the insert share one transaction, so a failed insert
// never burns sequence numbers that concurrent requests could observe
// as gaps.
func (s *Service) Create(ctx context.Context, input CreateInput) (*party.Party, error) {
	prefix := numbering.PartyPrefix(input.Type, input.CompanyName, input.ConsigneeNames)

	for range allocateRetries {
		var created *party.Party
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			id, err := s.alloc.Allocate(txCtx, numbering.KindParty, prefix, s.seed(prefix))
			if err != nil {
				return err
			}
			p, err := newPartyFromInput(id, input)
			if err != nil {
				return err
			}
			if err := s.parties.Save(txCtx, p); err != nil {
				return err
			}
			created = p
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		// Rows exist above the counter. Raise it and retry.
		s.logger.Warn("Customer identifier collision, resyncing sequence",
			zap.String("prefix", string(prefix)))
		if rErr := s.alloc.Resync(ctx, numbering.KindParty, prefix, s.seed(prefix)); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns one party.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	return s.parties.FindByID(ctx, id)
}

// List returns a page of parties and the total count.
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]party.Party, int64, error) {
	items, err := s.parties.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.parties.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update replaces a party's attributes. When the identity attributes
// change the identifier prefix, a fresh identifier is allocated in the
// new prefix's numbering space; the old identifier is abandoned.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*party.Party, error) {
	for range allocateRetries {
		var updated *party.Party
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			p, err := s.parties.FindByID(txCtx, id)
			if err != nil {
				return err
			}
			prefixChanged, err := p.UpdateIdentity(party.Type(input.Type), input.CompanyName, input.ConsigneeNames)
			if err != nil {
				return err
			}
			if prefixChanged {
				prefix := p.Prefix()
				newID, err := s.alloc.Allocate(txCtx, numbering.KindParty, prefix, s.seed(prefix))
				if err != nil {
					return err
				}
				if err := p.ReassignIdentifier(newID); err != nil {
					return err
				}
			}
			if err := applyDetails(p, input.TradeRole, input.ContactNumber, input.Email, input.GSTIN, input.ShippedTo, input.BillTo); err != nil {
				return err
			}
			if err := s.parties.Save(txCtx, p); err != nil {
				return err
			}
			updated = p
			return nil
		})
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		prefix := numbering.PartyPrefix(input.Type, input.CompanyName, input.ConsigneeNames)
		if rErr := s.alloc.Resync(ctx, numbering.KindParty, prefix, s.seed(prefix)); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Delete removes a party.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.parties.Delete(ctx, id)
}

func (s *Service) seed(prefix numbering.Prefix) numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.parties.MaxSequence(ctx, prefix)
	}
}

func newPartyFromInput(id numbering.Identifier, input CreateInput) (*party.Party, error) {
	p, err := party.NewParty(id, party.Type(input.Type), input.CompanyName, input.ConsigneeNames)
	if err != nil {
		return nil, err
	}
	if err := applyDetails(p, input.TradeRole, input.ContactNumber, input.Email, input.GSTIN, input.ShippedTo, input.BillTo); err != nil {
		return nil, err
	}
	return p, nil
}

func applyDetails(p *party.Party, tradeRole, contactNumber, email, gstin, shippedTo, billTo string) error {
	if err := p.SetTradeRole(party.TradeRole(tradeRole)); err != nil {
		return err
	}
	if err := p.SetContact(contactNumber, email); err != nil {
		return err
	}
	if err := p.SetGSTIN(gstin); err != nil {
		return err
	}
	p.SetAddresses(shippedTo, billTo)
	return nil
}
