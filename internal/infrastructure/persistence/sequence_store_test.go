package persistence

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopas/backend/internal/domain/numbering"
)

func noSeed(context.Context) (int64, error) { return 0, nil }

func TestReserveCreatesCounterFromSeed(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	// Rows CU001..CU007 already exist, so the seed reports 7.
	first, err := s.Reserve(ctx, numbering.KindParty, "CU", 1, func(context.Context) (int64, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), first)
}

func TestReserveSurvivesLostCounterCreationRace(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	// Another writer creates the counter between the first UPDATE (which
	// sees no row) and the seed insert. The insert must come back as a
	// no-op rather than a unique-violation statement error: inside a
	// Postgres transaction a statement error aborts the transaction and
	// every later statement fails, so the retry loop could never recover.
	first, err := s.Reserve(ctx, numbering.KindParty, "AC", 1, func(context.Context) (int64, error) {
		require.NoError(t, db.Create(&identifierSequence{
			Kind:      string(numbering.KindParty),
			Prefix:    "AC",
			LastValue: 5,
		}).Error)
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), first, "retry must serve from the winner's counter")
}

func TestReserveBlocksAreConsecutive(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	first, err := s.Reserve(ctx, numbering.KindAgent, "AG", 5, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := s.Reserve(ctx, numbering.KindAgent, "AG", 3, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(6), second)
}

func TestReserveKindsDoNotContend(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	partyFirst, err := s.Reserve(ctx, numbering.KindParty, "CU", 4, noSeed)
	require.NoError(t, err)
	agentFirst, err := s.Reserve(ctx, numbering.KindAgent, "CU", 1, noSeed)
	require.NoError(t, err)

	assert.Equal(t, int64(1), partyFirst)
	assert.Equal(t, int64(1), agentFirst)
}

func TestReserveRejectsNonPositiveCount(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)

	_, err := s.Reserve(context.Background(), numbering.KindParty, "CU", 0, noSeed)
	assert.Error(t, err)
}

func TestReserveConcurrentBlocksNeverOverlap(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	const workers = 20
	const perWorker = 3

	var wg sync.WaitGroup
	firsts := make([]int64, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := s.Reserve(ctx, numbering.KindStore, "ST", perWorker, noSeed)
			assert.NoError(t, err)
			firsts[i] = first
		}()
	}
	wg.Wait()

	// Expanding every block must tile 1..workers*perWorker exactly.
	var all []int64
	for _, first := range firsts {
		for n := range int64(perWorker) {
			all = append(all, first+n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	for i, n := range all {
		assert.Equal(t, int64(i+1), n)
	}
}

func TestResyncRaisesCounter(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	_, err := s.Reserve(ctx, numbering.KindParty, "CU", 2, noSeed)
	require.NoError(t, err)

	// Rows up to CU009 appeared out of band.
	require.NoError(t, s.Resync(ctx, numbering.KindParty, "CU", 9))

	next, err := s.Reserve(ctx, numbering.KindParty, "CU", 1, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(10), next)
}

func TestResyncNeverLowersCounter(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	_, err := s.Reserve(ctx, numbering.KindParty, "CU", 10, noSeed)
	require.NoError(t, err)

	require.NoError(t, s.Resync(ctx, numbering.KindParty, "CU", 3))

	next, err := s.Reserve(ctx, numbering.KindParty, "CU", 1, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(11), next)
}

func TestResyncCreatesMissingCounter(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	ctx := context.Background()

	require.NoError(t, s.Resync(ctx, numbering.KindOrder, "OID", 42))

	next, err := s.Reserve(ctx, numbering.KindOrder, "OID", 1, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(43), next)
}

func TestReserveInsideRolledBackTransaction(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormSequenceStore(db)
	tm := NewGormTxManager(db)
	ctx := context.Background()

	_, err := s.Reserve(ctx, numbering.KindParty, "CU", 2, noSeed)
	require.NoError(t, err)

	// A failed batch rolls the counter bump back with the rows.
	err = tm.WithTx(ctx, func(txCtx context.Context) error {
		first, err := s.Reserve(txCtx, numbering.KindParty, "CU", 5, noSeed)
		require.NoError(t, err)
		assert.Equal(t, int64(3), first)
		return assert.AnError
	})
	require.Error(t, err)

	next, err := s.Reserve(ctx, numbering.KindParty, "CU", 1, noSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)
}
