package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/shared"
)

type txKey struct{}

// GormTxManager implements shared.TxManager on top of GORM transactions.
// The transaction handle is carried in the context, so every repository
// call made inside fn joins the same transaction.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager for the given connection
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithTx runs fn inside a transaction. Any error from fn rolls back
// everything written through the transactional context.
func (m *GormTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

var _ shared.TxManager = (*GormTxManager)(nil)

// dbFor resolves the connection for a context: the transaction carried by
// a TxManager.WithTx context, or the fallback connection.
func dbFor(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// translateWriteError maps GORM write errors onto domain sentinels so the
// application layer never depends on the driver. Duplicate key means an
// identifier or unique column collided with an existing row.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}
