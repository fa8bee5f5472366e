package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

func TestRedisOTPCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "989123456789", "123456", 300*time.Second))
	assert.Equal(t, 300*time.Second, mr.TTL("otp:989123456789"))

	code, err := cache.Get(ctx, "989123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	require.NoError(t, cache.Set(ctx, "989123456789", "654321", 300*time.Second))
	code, err = cache.Get(ctx, "989123456789")
	require.NoError(t, err)
	assert.Equal(t, "654321", code)

	require.NoError(t, cache.Delete(ctx, "989123456789"))
	_, err = cache.Get(ctx, "989123456789")
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestRedisOTPCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "989123456789", "123456", 300*time.Second))
	mr.FastForward(301 * time.Second)

	_, err := cache.Get(ctx, "989123456789")
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}
