package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// SaleStatus tracks a purchase order through production.
type SaleStatus string

const (
	StatusRaw        SaleStatus = "Raw Materials Approval Pending"
	StatusBOMCreated SaleStatus = "BOM Created"
	StatusCompleted  SaleStatus = "Completed"
)

// PurchaseOrder is a sales/purchase order. Orders share one fixed "OID"
// numbering space.
//
// Identifier policy: immutable after creation.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderID         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartyID         *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName     string          `gorm:"type:varchar(200)"`
	Quantity        int             `gorm:"not null;default:1"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SaleStatus      SaleStatus      `gorm:"type:varchar(50);not null"`
	AssignedComment string          `gorm:"type:text"`
	DesignFileURL   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates an order with an already-allocated identifier.
func NewPurchaseOrder(orderID numbering.Identifier, userID uuid.UUID, productName string, quantity int, price decimal.Decimal) (*PurchaseOrder, error) {
	if orderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order needs a creating user")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID.String(),
		UserID:            userID,
		ProductName:       strings.TrimSpace(productName),
		Quantity:          quantity,
		Price:             price,
		SaleStatus:        StatusRaw,
	}, nil
}

// Total returns price multiplied by quantity.
func (o *PurchaseOrder) Total() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// MarkBOMCreated transitions the order once a bill of materials exists.
func (o *PurchaseOrder) MarkBOMCreated() error {
	if o.SaleStatus == StatusCompleted {
		return shared.ErrInvalidState
	}
	o.SaleStatus = StatusBOMCreated
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// AttachDesignFile records the uploaded design file location and the
// assignee's comment.
func (o *PurchaseOrder) AttachDesignFile(url, comment string) error {
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("INVALID_FILE", "Design file URL is required")
	}
	o.DesignFileURL = url
	o.AssignedComment = comment
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
