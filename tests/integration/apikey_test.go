package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/internal/store"
)

func TestAPIKeyService_Integration_StoreAndExpire(t *testing.T) {
	forEachBackend(t, time.Hour, func(t *testing.T, svc *services.APIKeyService, _ store.Store) {
		ctx := context.Background()

		require.NoError(t, svc.StoreAPIKey(ctx, "abc123", "user-42", 2*time.Second))

		ok, err := svc.ValidateAPIKey(ctx, "abc123")
		require.NoError(t, err)
		assert.True(t, ok)

		rec, found, err := svc.GetAPIKeyInfo(ctx, "abc123")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "user-42", rec.UserID)

		time.Sleep(3 * time.Second)

		ok, err = svc.ValidateAPIKey(ctx, "abc123")
		require.NoError(t, err)
		assert.False(t, ok)

		_, found, err = svc.GetAPIKeyInfo(ctx, "abc123")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestAPIKeyService_Integration_GenerateAndExtend(t *testing.T) {
	forEachBackend(t, time.Hour, func(t *testing.T, svc *services.APIKeyService, _ store.Store) {
		ctx := context.Background()

		key, err := svc.GenerateAPIKey(ctx, "k1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "k1", key)

		rec, found, err := svc.GetAPIKeyInfo(ctx, "k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.WithinDuration(t, time.Now().Add(time.Hour), rec.ExpiresAt, 5*time.Second)

		// a short custom key survives past its own timeout once extended
		require.NoError(t, svc.StoreAPIKey(ctx, "short", "u2", 2*time.Second))
		extended, err := svc.ExtendAPIKeyExpiration(ctx, "short")
		require.NoError(t, err)
		assert.True(t, extended)

		time.Sleep(3 * time.Second)

		rec, found, err = svc.GetAPIKeyInfo(ctx, "short")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "u2", rec.UserID)

		extended, err = svc.ExtendAPIKeyExpiration(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, extended)

		ok, err := svc.HasAPIKey(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPostgresStore_Integration_CleanupExpired(t *testing.T) {
	forEachBackend(t, time.Hour, func(t *testing.T, svc *services.APIKeyService, s store.Store) {
		sweeper, ok := s.(store.Sweeper)
		if !ok {
			t.Skip("backend expires natively")
		}
		ctx := context.Background()

		require.NoError(t, svc.StoreAPIKey(ctx, "gone", "u", time.Second))
		require.NoError(t, svc.StoreAPIKey(ctx, "kept", "u", time.Hour))

		time.Sleep(2 * time.Second)

		removed, err := sweeper.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		ok, err = svc.ValidateAPIKey(ctx, "kept")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
