package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/domain/bulk"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/domain/store"
	"github.com/sopas/backend/internal/infrastructure/importfile"
	"github.com/sopas/backend/internal/infrastructure/persistence"
)

type importEnv struct {
	db      *gorm.DB
	alloc   *numbering.Allocator
	txm     *persistence.GormTxManager
	records bulk.Repository
	logger  *zap.Logger
}

func setupImportEnv(t *testing.T) *importEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	return &importEnv{
		db:      db,
		alloc:   numbering.NewAllocator(persistence.NewGormSequenceStore(db)),
		txm:     persistence.NewGormTxManager(db),
		records: persistence.NewGormImportRecordRepository(db),
		logger:  zap.NewNop(),
	}
}

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStoreImportRejectsBatchOnFirstInvalidRow(t *testing.T) {
	env := setupImportEnv(t)
	stores := persistence.NewGormStoreRepository(env.db)
	imp := NewStoreImporter(stores, env.alloc, env.txm, env.records, env.logger)

	path := writeUpload(t, "stores.csv",
		"name,address_line1,city,state\n"+
			"Alpha Mart,12 Main Rd,Chennai,Tamil Nadu\n"+
			"Beta Mart,4 Hill St,,Kerala\n"+
			"Gamma Mart,9 Lake Ave,Kochi,Kerala\n")

	_, err := imp.Import(context.Background(), path, filepath.Base(path))
	require.Error(t, err)

	var rowErr *importfile.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "city", rowErr.Field)

	var count int64
	require.NoError(t, env.db.Model(&store.Store{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAgentImportAssignsContiguousIdentifiersInRowOrder(t *testing.T) {
	env := setupImportEnv(t)
	agents := persistence.NewGormAgentRepository(env.db)
	imp := NewAgentImporter(agents, env.alloc, env.txm, env.records, env.logger)

	path := writeUpload(t, "agents.csv",
		"name,type\n"+
			"Agarwal Textiles,buyer\n"+
			"Agni Mills,supplier\n"+
			"Agra Traders,buyer\n"+
			"Agile Fabrics,supplier\n"+
			"Agam Exports,buyer\n")

	result, err := imp.Import(context.Background(), path, filepath.Base(path))
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, 5, result.InsertedCount)

	var got []agent.Agent
	require.NoError(t, env.db.Order("created_at").Find(&got).Error)
	require.Len(t, got, 5)
	for i, want := range []string{"AG001", "AG002", "AG003", "AG004", "AG005"} {
		assert.Equal(t, want, got[i].AgentID)
	}
}

func TestPartyImportFallsBackToDefaultPrefix(t *testing.T) {
	env := setupImportEnv(t)
	parties := persistence.NewGormPartyRepository(env.db)
	imp := NewPartyImporter(parties, env.alloc, env.txm, env.records, env.logger)

	// Single-character consignee name cannot fill a 2-character prefix.
	path := writeUpload(t, "parties.csv",
		"type,company_name,consignee_name\n"+
			"Individual,,Q\n"+
			"Company,Reliance Traders,\n")

	result, err := imp.Import(context.Background(), path, filepath.Base(path))
	require.NoError(t, err)
	assert.Equal(t, 2, result.InsertedCount)

	found, err := parties.FindAll(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	ids := []string{found[0].CustomerID, found[1].CustomerID}
	assert.Contains(t, ids, "CU001")
	assert.Contains(t, ids, "RE001")
}

func TestImportRemovesUploadedFile(t *testing.T) {
	env := setupImportEnv(t)
	stores := persistence.NewGormStoreRepository(env.db)
	imp := NewStoreImporter(stores, env.alloc, env.txm, env.records, env.logger)

	path := writeUpload(t, "stores.csv",
		"name,address_line1,city,state\n"+
			"Alpha Mart,12 Main Rd,Chennai,Tamil Nadu\n")

	_, err := imp.Import(context.Background(), path, filepath.Base(path))
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportFailureStillRemovesUploadedFile(t *testing.T) {
	env := setupImportEnv(t)
	stores := persistence.NewGormStoreRepository(env.db)
	imp := NewStoreImporter(stores, env.alloc, env.txm, env.records, env.logger)

	path := writeUpload(t, "stores.csv",
		"name,address_line1,city,state\n"+
			"Alpha Mart,,Chennai,Tamil Nadu\n")

	_, err := imp.Import(context.Background(), path, filepath.Base(path))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportRejectsUnsupportedFormat(t *testing.T) {
	env := setupImportEnv(t)
	stores := persistence.NewGormStoreRepository(env.db)
	imp := NewStoreImporter(stores, env.alloc, env.txm, env.records, env.logger)

	path := writeUpload(t, "stores.txt", "not a spreadsheet")

	_, err := imp.Import(context.Background(), path, filepath.Base(path))
	assert.ErrorIs(t, err, importfile.ErrUnsupportedFormat)
}

func TestImportRecordsHistory(t *testing.T) {
	env := setupImportEnv(t)
	stores := persistence.NewGormStoreRepository(env.db)
	imp := NewStoreImporter(stores, env.alloc, env.txm, env.records, env.logger)
	history := NewHistoryService(env.records)

	okPath := writeUpload(t, "good.csv",
		"name,address_line1,city,state\n"+
			"Alpha Mart,12 Main Rd,Chennai,Tamil Nadu\n")
	_, err := imp.Import(context.Background(), okPath, filepath.Base(okPath))
	require.NoError(t, err)

	badPath := writeUpload(t, "bad.csv",
		"name,address_line1,city,state\n"+
			"Beta Mart,4 Hill St,,Kerala\n")
	_, err = imp.Import(context.Background(), badPath, filepath.Base(badPath))
	require.Error(t, err)

	recent, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	byFile := map[string]bulk.ImportRecord{}
	for _, r := range recent {
		byFile[r.FileName] = r
	}
	assert.Equal(t, bulk.ImportStatusCompleted, byFile["good.csv"].Status)
	assert.Equal(t, 1, byFile["good.csv"].InsertedRows)
	assert.Equal(t, bulk.ImportStatusFailed, byFile["bad.csv"].Status)
	assert.NotEmpty(t, byFile["bad.csv"].FailureReason)
}

func TestImportContinuesNumberingAcrossBatches(t *testing.T) {
	env := setupImportEnv(t)
	agents := persistence.NewGormAgentRepository(env.db)
	imp := NewAgentImporter(agents, env.alloc, env.txm, env.records, env.logger)

	first := writeUpload(t, "first.csv",
		"name,type\nAgarwal Textiles,buyer\nAgni Mills,supplier\n")
	_, err := imp.Import(context.Background(), first, filepath.Base(first))
	require.NoError(t, err)

	second := writeUpload(t, "second.csv",
		"name,type\nAgra Traders,buyer\n")
	_, err = imp.Import(context.Background(), second, filepath.Base(second))
	require.NoError(t, err)

	var got []agent.Agent
	require.NoError(t, env.db.Order("created_at").Find(&got).Error)
	require.Len(t, got, 3)
	assert.Equal(t, "AG003", got[2].AgentID)
}
