package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sopas/backend/internal/domain/numbering"
)

// UserRepository is the persistence port for users.
type UserRepository interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int64, error)

	MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error)
}

// SubscriptionOrderRepository is the persistence port for subscription
// orders.
type SubscriptionOrderRepository interface {
	Save(ctx context.Context, o *SubscriptionOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*SubscriptionOrder, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionOrder, error)
}
