package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopas/backend/internal/domain/shared"
)

func TestInMemoryOTPStorePutGet(t *testing.T) {
	store := NewInMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ravi@example.com", "1234", time.Minute))

	code, err := store.Get(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1234", code)
}

func TestInMemoryOTPStoreResendKeepsExistingCode(t *testing.T) {
	store := NewInMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ravi@example.com", "1234", time.Minute))
	require.NoError(t, store.Put(ctx, "ravi@example.com", "5678", time.Minute))

	code, err := store.Get(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1234", code)
}

func TestInMemoryOTPStoreExpiry(t *testing.T) {
	store := NewInMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ravi@example.com", "1234", -time.Second))

	_, err := store.Get(ctx, "ravi@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemoryOTPStoreDelete(t *testing.T) {
	store := NewInMemoryOTPStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ravi@example.com", "1234", time.Minute))
	require.NoError(t, store.Delete(ctx, "ravi@example.com"))

	_, err := store.Get(ctx, "ravi@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
