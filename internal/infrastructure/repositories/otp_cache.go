package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// RedisOTPCache implements domain.OTPCache with one key per phone
type RedisOTPCache struct {
	client *redis.Client
	prefix string
}

// NewOTPCache creates a Redis-backed OTP cache
func NewOTPCache(client *redis.Client) domain.OTPCache {
	return &RedisOTPCache{client: client, prefix: "otp:"}
}

// Set implements domain.OTPCache. A new code replaces the previous one.
func (c *RedisOTPCache) Set(ctx context.Context, phone, code string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+phone, code, ttl).Err()
}

// Get implements domain.OTPCache
func (c *RedisOTPCache) Get(ctx context.Context, phone string) (string, error) {
	code, err := c.client.Get(ctx, c.prefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrOTPExpired
		}
		return "", err
	}
	return code, nil
}

// Delete implements domain.OTPCache
func (c *RedisOTPCache) Delete(ctx context.Context, phone string) error {
	return c.client.Del(ctx, c.prefix+phone).Err()
}
