package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// Product is a catalog entry. Its identifier prefix is derived from the
// category's word initials, so "finished goods" products number FG001,
// FG002 and so on.
//
// Identifier policy: immutable after creation.
type Product struct {
	shared.BaseAggregateRoot
	ProductID string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Category  string          `gorm:"type:varchar(100);not null;index"`
	UOM       string          `gorm:"type:varchar(20)"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with an already-allocated identifier.
func NewProduct(productID numbering.Identifier, name, category string, price decimal.Decimal) (*Product, error) {
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	category = normalizeCategory(category)
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID.String(),
		Name:              name,
		Category:          category,
		Price:             price,
	}, nil
}

// Prefix derives the identifier prefix for a category. Categories are
// normalized to lowercase before derivation so "Finished Goods" and
// "finished goods" share one numbering space.
func Prefix(category string) (numbering.Prefix, error) {
	return numbering.CategoryPrefix(normalizeCategory(category))
}

// SetUOM sets the unit of measure.
func (p *Product) SetUOM(uom string) {
	p.UOM = uom
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetPrice sets the unit price.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
