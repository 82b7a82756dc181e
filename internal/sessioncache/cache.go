package sessioncache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -destination=mock_cache.go -package=sessioncache auction-house/internal/sessioncache Cache

const keyPrefix = "auction:session:"

// Cache maps session tokens to user IDs. A miss returns found == false with a nil error.
type Cache interface {
	Get(ctx context.Context, token string) (userID int64, found bool, err error)
	Set(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// RedisCache stores session lookups in Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("sessioncache: ping %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, token string) (int64, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("sessioncache: get: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("sessioncache: corrupt entry: %w", err)
	}
	return userID, true, nil
}

// Set stores the mapping. A ttl of 0 keeps the key until it is deleted.
func (c *RedisCache) Set(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+token, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("sessioncache: set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("sessioncache: delete: %w", err)
	}
	return nil
}

// Close releases the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
