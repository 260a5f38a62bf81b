package redisstore_test

import (
	"context"
	"testing"
	"time"

	redisstore "ticker-service/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newQuota(t *testing.T, limit int, window time.Duration) (*redisstore.QuotaStore, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := redisstore.NewQuota(client, limit, window)
	store.Now = func() time.Time { return now }
	return store, mr, &now
}

func TestAllow_LimitPerWindow(t *testing.T) {
	store, _, now := newQuota(t, 2, time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := store.Allow(ctx, "poloniex")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := store.Allow(ctx, "poloniex")
	require.NoError(t, err)
	require.False(t, ok)

	*now = now.Add(time.Second)
	ok, err = store.Allow(ctx, "poloniex")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	store, _, _ := newQuota(t, 1, time.Second)
	ctx := context.Background()

	ok, err := store.Allow(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.Allow(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllow_WindowKeyExpires(t *testing.T) {
	store, mr, _ := newQuota(t, 1, time.Second)
	_, err := store.Allow(context.Background(), "poloniex")
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	mr.FastForward(3 * time.Second)
	require.Empty(t, mr.Keys())
}

func TestAllow_RedisDown(t *testing.T) {
	store, mr, _ := newQuota(t, 1, time.Second)
	mr.Close()
	_, err := store.Allow(context.Background(), "poloniex")
	require.Error(t, err)
}

func TestAllow_Disabled(t *testing.T) {
	store, _, _ := newQuota(t, 0, time.Second)
	for i := 0; i < 5; i++ {
		ok, err := store.Allow(context.Background(), "poloniex")
		require.NoError(t, err)
		require.True(t, ok)
	}
}
