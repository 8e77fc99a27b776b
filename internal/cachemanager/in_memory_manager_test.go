package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "uploads")
	require.True(t, ok)
	require.Equal(t, "/data/app/files/uploads", got)
}

func TestInMemoryCacheManager_GetMissingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_NoExpirationEntriesPersist(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", NoExpiration, 0)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", NoExpiration)

	time.Sleep(10 * time.Millisecond)

	got, ok := cache.Get(context.Background(), "uploads")
	require.True(t, ok)
	require.Equal(t, "/data/app/files/uploads", got)
}

func TestInMemoryCacheManager_ExpiredValueIsGone(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", 5*time.Millisecond, DefaultCleanupInterval)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get(context.Background(), "uploads")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", 50*time.Millisecond)

	// Refresh extends the ttl past the original expiry
	got, ok := cache.GetWithRefresh(context.Background(), "uploads", 10*time.Second)
	require.True(t, ok)
	require.Equal(t, "/data/app/files/uploads", got)

	time.Sleep(60 * time.Millisecond)

	got, ok = cache.Get(context.Background(), "uploads")
	require.True(t, ok)
	require.Equal(t, "/data/app/files/uploads", got)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", DefaultExpiration)
	cache.Set(context.Background(), "cache", "/data/app/var/cache", DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "uploads"))

	_, ok := cache.Get(context.Background(), "uploads")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "cache")
	require.True(t, ok)
}

func TestInMemoryCacheManager_DeleteNoKeysIsNoop(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)
	require.NoError(t, cache.Delete(context.Background()))
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("resolve", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "uploads", "/data/app/files/uploads", DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	_, ok := cache.Get(context.Background(), "uploads")
	require.False(t, ok)
}

type statusValue struct {
	Path     string
	Writable bool
}

func TestInMemoryCacheManager_StructValues(t *testing.T) {
	cache := NewInMemoryCacheManager[string, statusValue]("status", DefaultExpiration, DefaultCleanupInterval)
	value := statusValue{Path: "/data/app/files/uploads", Writable: true}
	cache.Set(context.Background(), "uploads", value, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "uploads")
	require.True(t, ok)
	require.Equal(t, value, got)
}
