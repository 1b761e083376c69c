package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PartySortFields contains allowed sort fields for parties
var PartySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"customer_id":  true,
	"company_name": true,
	"type":         true,
	"trade_role":   true,
}

// OrderSortFields contains allowed sort fields for purchase orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_id":     true,
	"product_name": true,
	"sale_status":  true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"product_id": true,
	"name":       true,
	"category":   true,
}

// validateSortField validates the sort field against a whitelist of allowed
// fields, falling back to defaultField.
func validateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// applyFilter applies whitelist-checked ordering and pagination to a query
func applyFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := validateSortField(filter.SortBy, allowedFields, defaultField)
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	query = query.Order(field + " " + dir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	return query
}

// maxSequence scans the identifiers stored in column for the given prefix
// and returns the highest numeric suffix, 0 when none match. Suffix parsing
// happens in Go so an identifier like "CU12X" never corrupts the result.
func maxSequence(db *gorm.DB, model any, column string, prefix numbering.Prefix) (int64, error) {
	var ids []string
	if err := db.Model(model).
		Where(column+" LIKE ?", string(prefix)+"%").
		Pluck(column, &ids).Error; err != nil {
		return 0, err
	}

	var max int64
	for _, id := range ids {
		n, err := numbering.Identifier(id).Sequence(prefix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}
