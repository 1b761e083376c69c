package partyapp

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/party"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/persistence"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	svc := NewService(
		persistence.NewGormPartyRepository(db),
		numbering.NewAllocator(persistence.NewGormSequenceStore(db)),
		persistence.NewGormTxManager(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestCreateAssignsSequentialFallbackIdentifiers(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	// Single-character consignee names cannot fill the prefix, so both
	// parties land in the CU fallback space.
	first, err := svc.Create(ctx, CreateInput{Type: "Individual", ConsigneeNames: []string{"Q"}})
	require.NoError(t, err)
	assert.Equal(t, "CU001", first.CustomerID)

	second, err := svc.Create(ctx, CreateInput{Type: "Individual", ConsigneeNames: []string{"Z"}})
	require.NoError(t, err)
	assert.Equal(t, "CU002", second.CustomerID)
}

func TestCreateDerivesCompanyPrefix(t *testing.T) {
	svc, _ := setupService(t)

	p, err := svc.Create(context.Background(), CreateInput{
		Type:        "Company",
		CompanyName: "Reliance Traders",
	})
	require.NoError(t, err)
	assert.Equal(t, "RE001", p.CustomerID)
}

func TestConcurrentCreatesNeverShareAnIdentifier(t *testing.T) {
	svc, _ := setupService(t)

	results := make([]string, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, name := range []string{"Acme Mills", "Acorn Fabrics"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Create(context.Background(), CreateInput{
				Type:        "Company",
				CompanyName: name,
			})
			errs[i] = err
			if err == nil {
				results[i] = p.CustomerID
			}
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0], results[1])
	assert.ElementsMatch(t, []string{"AC001", "AC002"}, results)
}

func TestCreateRecoversFromOutOfBandRows(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Type: "Company", CompanyName: "Reliance Traders"})
	require.NoError(t, err)
	require.Equal(t, "RE001", first.CustomerID)

	// A row inserted out of band, past the counter, collides with the
	// next allocation; the service resyncs the counter and retries.
	outOfBand, err := party.NewParty("RE002", party.TypeCompany, "Regency Mills", nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(outOfBand).Error)

	p, err := svc.Create(ctx, CreateInput{Type: "Company", CompanyName: "Regal Fabrics"})
	require.NoError(t, err)
	assert.Equal(t, "RE003", p.CustomerID)
}

func TestUpdateReassignsIdentifierWhenPrefixChanges(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Type: "Company", CompanyName: "Reliance Traders"})
	require.NoError(t, err)
	require.Equal(t, "RE001", p.CustomerID)

	updated, err := svc.Update(ctx, p.ID, UpdateInput{
		Type:        "Company",
		CompanyName: "Zenith Mills",
	})
	require.NoError(t, err)
	assert.Equal(t, "ZE001", updated.CustomerID)
}

func TestUpdateKeepsIdentifierWhenPrefixUnchanged(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Type: "Company", CompanyName: "Reliance Traders"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, UpdateInput{
		Type:        "Company",
		CompanyName: "Reliable Exports", // same RE prefix
	})
	require.NoError(t, err)
	assert.Equal(t, "RE001", updated.CustomerID)
}

func TestCreateRejectsInvalidType(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Create(context.Background(), CreateInput{Type: "Partnership"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TYPE", domainErr.Code)
}

func TestListReturnsTotalCount(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, name := range []string{"Reliance Traders", "Zenith Mills", "Acme Mills"} {
		_, err := svc.Create(ctx, CreateInput{Type: "Company", CompanyName: name})
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), total)
}
