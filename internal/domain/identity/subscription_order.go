package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sopas/backend/internal/domain/shared"
)

// SubscriptionPlan names a purchasable plan.
type SubscriptionPlan string

const (
	PlanFreeTrial SubscriptionPlan = "Free Trial"
	PlanKontronix SubscriptionPlan = "KONTRONIX"
	PlanSopas     SubscriptionPlan = "SOPAS"
	PlanRtpas     SubscriptionPlan = "RTPAS"
)

// SubscriptionStatus tracks payment progress on a subscription order.
type SubscriptionStatus string

const (
	SubscriptionCreated SubscriptionStatus = "created"
	SubscriptionPaid    SubscriptionStatus = "paid"
	SubscriptionFailed  SubscriptionStatus = "failed"
)

// SubscriptionPeriod is the billing period.
type SubscriptionPeriod string

const (
	PeriodMonth SubscriptionPeriod = "month"
	PeriodYear  SubscriptionPeriod = "year"
)

// SubscriptionOrder records a plan purchase for a user. Amounts are kept
// in the smallest currency unit.
type SubscriptionOrder struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Plan      SubscriptionPlan   `gorm:"type:varchar(50);not null"`
	Amount    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Currency  string             `gorm:"type:varchar(10);not null;default:'INR'"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'created'"`
	Period    SubscriptionPeriod `gorm:"type:varchar(10);not null;default:'month'"`
	StartDate time.Time          `gorm:"not null"`
	EndDate   *time.Time         `gorm:""`
}

// TableName returns the table name for GORM
func (SubscriptionOrder) TableName() string {
	return "subscription_orders"
}

// NewFreeTrialOrder creates the zero-amount trial order every new user
// starts with.
func NewFreeTrialOrder(userID uuid.UUID) (*SubscriptionOrder, error) {
	return NewSubscriptionOrder(userID, PlanFreeTrial, decimal.Zero, PeriodMonth)
}

// NewSubscriptionOrder creates a subscription order in the created state.
func NewSubscriptionOrder(userID uuid.UUID, plan SubscriptionPlan, amount decimal.Decimal, period SubscriptionPeriod) (*SubscriptionOrder, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Subscription order needs a user")
	}
	switch plan {
	case PlanFreeTrial, PlanKontronix, PlanSopas, PlanRtpas:
	default:
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	switch period {
	case PeriodMonth, PeriodYear:
	default:
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be 'month' or 'year'")
	}

	return &SubscriptionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Plan:              plan,
		Amount:            amount,
		Currency:          "INR",
		Status:            SubscriptionCreated,
		Period:            period,
		StartDate:         time.Now(),
	}, nil
}

// MarkPaid transitions the order to paid and stamps the period end.
func (o *SubscriptionOrder) MarkPaid() error {
	if o.Status != SubscriptionCreated {
		return shared.ErrInvalidState
	}
	o.Status = SubscriptionPaid
	end := o.StartDate.AddDate(0, 1, 0)
	if o.Period == PeriodYear {
		end = o.StartDate.AddDate(1, 0, 0)
	}
	o.EndDate = &end
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkFailed transitions the order to failed.
func (o *SubscriptionOrder) MarkFailed() error {
	if o.Status != SubscriptionCreated {
		return shared.ErrInvalidState
	}
	o.Status = SubscriptionFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
