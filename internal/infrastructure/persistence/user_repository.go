package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindAll returns every account ordered by employee identifier
func (r *GormUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	var users []*identity.User
	if err := r.conn(ctx).Order("employee_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return translateWriteError(r.conn(ctx).Save(u).Error)
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := r.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var u identity.User
	if err := r.conn(ctx).First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Count counts all users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&identity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxSequence returns the highest employee identifier suffix for the prefix
func (r *GormUserRepository) MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error) {
	return maxSequence(r.conn(ctx), &identity.User{}, "employee_id", prefix)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormSubscriptionOrderRepository implements identity.SubscriptionOrderRepository
type GormSubscriptionOrderRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionOrderRepository creates a new GormSubscriptionOrderRepository
func NewGormSubscriptionOrderRepository(db *gorm.DB) *GormSubscriptionOrderRepository {
	return &GormSubscriptionOrderRepository{db: db}
}

func (r *GormSubscriptionOrderRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save creates or updates a subscription order
func (r *GormSubscriptionOrderRepository) Save(ctx context.Context, o *identity.SubscriptionOrder) error {
	return translateWriteError(r.conn(ctx).Save(o).Error)
}

// FindByID finds a subscription order by its ID
func (r *GormSubscriptionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.SubscriptionOrder, error) {
	var o identity.SubscriptionOrder
	if err := r.conn(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser finds all subscription orders for a user, newest first
func (r *GormSubscriptionOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.SubscriptionOrder, error) {
	var orders []identity.SubscriptionOrder
	if err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

var _ identity.SubscriptionOrderRepository = (*GormSubscriptionOrderRepository)(nil)
