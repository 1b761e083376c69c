// Package storeapp implements store (retail outlet) use cases.
package storeapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/store"
)

const allocateRetries = 3

// Service implements store use cases.
type Service struct {
	stores store.Repository
	alloc  *numbering.Allocator
	txm    shared.TxManager
	logger *zap.Logger
}

// NewService creates a store Service.
func NewService(stores store.Repository, alloc *numbering.Allocator, txm shared.TxManager, logger *zap.Logger) *Service {
	return &Service{stores: stores, alloc: alloc, txm: txm, logger: logger}
}

// Input carries store attributes for create and update.
type Input struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	PinCode      string `json:"pin_code"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Approved     bool   `json:"approved"`
}

// Create allocates a store identifier and persists the store.
func (s *Service) Create(ctx context.Context, input Input) (*store.Store, error) {
	prefix := numbering.NamePrefix(input.Name, numbering.StoreFallbackPrefix)

	for range allocateRetries {
		var created *store.Store
		err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
			id, err := s.alloc.Allocate(txCtx, numbering.KindStore, prefix, s.seed(prefix))
			if err != nil {
				return err
			}
			st, err := store.NewStore(id, input.Name, input.AddressLine1, input.City, input.State)
			if err != nil {
				return err
			}
			st.AddressLine2 = input.AddressLine2
			st.PinCode = input.PinCode
			st.SetApproved(input.Approved)
			if err := s.stores.Save(txCtx, st); err != nil {
				return err
			}
			created = st
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		s.logger.Warn("Store identifier collision, resyncing sequence",
			zap.String("prefix", string(prefix)))
		if rErr := s.alloc.Resync(ctx, numbering.KindStore, prefix, s.seed(prefix)); rErr != nil {
			return nil, rErr
		}
	}
	return nil, shared.ErrConcurrencyConflict
}

// Get returns one store.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	return s.stores.FindByID(ctx, id)
}

// ListByApproval returns stores filtered by approval state.
func (s *Service) ListByApproval(ctx context.Context, approved bool) ([]store.Store, error) {
	return s.stores.FindByApproval(ctx, approved)
}

// Update replaces a store's details. The store identifier never changes.
// Updates by non-super users reset the approval flag.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input, isSuper bool) (*store.Store, error) {
	st, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.Update(input.Name, input.AddressLine1, input.AddressLine2, input.PinCode, input.City, input.State); err != nil {
		return nil, err
	}
	if isSuper {
		st.SetApproved(input.Approved)
	} else {
		st.SetApproved(false)
	}
	if err := s.stores.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a store.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.stores.Delete(ctx, id)
}

func (s *Service) seed(prefix numbering.Prefix) numbering.SeedFunc {
	return func(ctx context.Context) (int64, error) {
		return s.stores.MaxSequence(ctx, prefix)
	}
}
