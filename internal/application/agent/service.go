// Package agentapp implements agent (buyer/supplier merchant) use cases.
package agentapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

const allocateRetries = 3

// Service implements agent use cases.
type Service struct {
	agents agent.Repository
	alloc  *numbering.Allocator
	txm    shared.TxManager
	logger *zap.Logger
}

// NewService creates an agent Service.
func NewService(agents agent.Repository, alloc *numbering.Allocator, txm shared.TxManager, logger *zap.Logger) *Service {
	return &Service{agents: agents, alloc: alloc, txm: txm, logger: logger}
}

// CreateInput carries the attributes for a new agent. Approved is only
// honored for super users; the handler clears it otherwise.
type CreateInput struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Company       string `json:"company"`
	GSTIN         string `json:"gstin"`
	AddressLine1  string `json:"address_line1"`
	City          string `json:"city"`
	State         string `json:"state"`
	Approved      bool   `json:"approved"`
}

// Create allocates an agent identifier and persists the agent.
func (s *Service) Create(ctx context.Context, input CreateInput) (*agent.Agent, error) {
	prefix := numbering.NamePrefix(input.Name, numbering.AgentFallbackPrefix)

	for range allocateRetries {
		var created *agent.Agent
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			id, err := s.alloc.Allocate(txCtx, numbering.KindAgent, prefix, s.seed(prefix))
			if err != nil {
				return err
			}
			a, err := agent.NewAgent(id, input.Name, agent.AgentType(input.Type))
			if err != nil {
				return err
			}
			a.SetContact(input.ContactNumber, input.Email, input.Company)
			a.SetAddress(input.AddressLine1, input.City, input.State)
			a.GSTIN = input.GSTIN
			if input.Approved {
				if err := a.Approve(); err != nil {
					return err
				}
			}
			if err := s.agents.Save(txCtx, a); err != nil {
				return err
			}
			created = a
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		s.logger.Warn("Agent identifier collision, resyncing sequence",
			zap.String("prefix", string(prefix)))
		if rErr := s.alloc.Resync(ctx, numbering.KindAgent, prefix, s.seed(prefix)); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns one agent.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	return s.agents.FindByID(ctx, id)
}

// ListByType returns agents of one type filtered by approval state.
// Identifiers are immutable for agents, so listings never re-derive.
func (s *Service) ListByType(ctx context.Context, agentType agent.AgentType, approved bool) ([]agent.Agent, error) {
	return s.agents.FindByType(ctx, agentType, approved)
}

// Approve marks an agent as approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Approve(); err != nil {
		return nil, err
	}
	if err := s.agents.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces an agent's editable details. The agent identifier is
// never re-derived.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (*agent.Agent, error) {
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(input.Name, agent.AgentType(input.Type)); err != nil {
		return nil, err
	}
	a.SetContact(input.ContactNumber, input.Email, input.Company)
	a.SetAddress(input.AddressLine1, input.City, input.State)
	a.GSTIN = input.GSTIN
	if err := s.agents.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an agent.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.agents.Delete(ctx, id)
}

func (s *Service) seed(prefix numbering.Prefix) numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.agents.MaxSequence(ctx, prefix)
	}
}
