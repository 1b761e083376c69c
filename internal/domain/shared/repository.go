package shared

import "context"

// Filter holds common list filtering and pagination options
type Filter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// DefaultFilter returns a filter with sane pagination defaults
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 10}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the page size, falling back to the default
func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return 10
	}
	return f.PageSize
}

// TxManager runs a function inside a storage transaction. The context passed
// to fn carries the transaction; repositories resolve it before touching the
// database, so every repository call inside fn joins the same transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
