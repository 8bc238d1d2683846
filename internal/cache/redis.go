package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cardswipe/cardswipe/internal/config"
	"github.com/redis/go-redis/v9"
)

// likeCountTTL bounds staleness of the per-user "liked you" counter.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikeCount generates the Redis key for the number of users
// who liked the given user.
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// IncrLikeCount bumps a user's liker counter after a like is recorded.
// Counter may be absent (cache miss); Incr seeds it at 1, which is then
// overwritten on the next authoritative read-through.
func (c *RedisCache) IncrLikeCount(ctx context.Context, userID uint64) error {
	key := c.KeyForLikeCount(userID)
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, likeCountTTL).Err()
}

// UpdateLikeCount stores an authoritative count with a fresh TTL.
func (c *RedisCache) UpdateLikeCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, likeCountTTL).Err()
}

// GetLikeCount reads the cached count. ok=false means cache miss and the
// caller should fall back to the database.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	return n, true, nil
}
