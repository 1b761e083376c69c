package identityapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/shared"
)

// SubscriptionService manages plan purchases.
type SubscriptionService struct {
	subscriptions identity.SubscriptionOrderRepository
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(subscriptions identity.SubscriptionOrderRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions}
}

// PurchaseInput carries the attributes for a plan purchase.
type PurchaseInput struct {
	Plan   string          `json:"plan" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
	Period string          `json:"period" binding:"required"`
}

// Purchase creates a subscription order in the created state. Payment
// confirmation transitions it separately.
func (s *SubscriptionService) Purchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*identity.SubscriptionOrder, error) {
	order, err := identity.NewSubscriptionOrder(
		userID,
		identity.SubscriptionPlan(input.Plan),
		input.Amount,
		identity.SubscriptionPeriod(input.Period),
	)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptions.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListForUser returns a user's subscription orders, newest first.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]identity.SubscriptionOrder, error) {
	return s.subscriptions.FindByUser(ctx, userID)
}

// ConfirmPayment marks a subscription order paid. Orders belonging to
// another user are reported as not found.
func (s *SubscriptionService) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID) (*identity.SubscriptionOrder, error) {
	order, err := s.subscriptions.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	if err := order.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
