package catalogapp

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/persistence"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	return NewService(
		persistence.NewGormProductRepository(db),
		numbering.NewAllocator(persistence.NewGormSequenceStore(db)),
		persistence.NewGormTxManager(db),
		zap.NewNop(),
	)
}

func TestCreateDerivesCategoryPrefix(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{
		Name:     "Cotton Shirt",
		Category: "Finished Goods",
		Price:    decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	assert.Equal(t, "FG001", first.ProductID)

	// Case-insensitive: same category, same numbering space.
	second, err := svc.Create(ctx, CreateInput{
		Name:     "Linen Trousers",
		Category: "finished goods",
		Price:    decimal.NewFromInt(900),
	})
	require.NoError(t, err)
	assert.Equal(t, "FG002", second.ProductID)
}

func TestCreateRejectsBlankCategory(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Cotton Shirt",
		Category: "   ",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
}

func TestUpdateChangesPriceAndUOM(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{
		Name:     "Cotton Shirt",
		Category: "Finished Goods",
		Price:    decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, "pcs", decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.Equal(t, "pcs", updated.UOM)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "FG001", updated.ProductID, "identifier never changes")
}
