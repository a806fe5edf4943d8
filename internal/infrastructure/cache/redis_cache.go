package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/ports"
)

const defaultKeyPrefix = "goalwatcher:score"

// RedisCache keeps last-seen scores in Redis so that restarts and multiple
// workers share one view of what has already been announced.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ScoreCache = (*RedisCache)(nil)

// NewRedisCache builds a client. go-redis dials on first use, so an
// unreachable server surfaces from Ping or from Get/Set.
func NewRedisCache(cfg config.CacheConfig) (*RedisCache, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return NewRedisCacheWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached score; ok is false when the match was never seen.
func (c *RedisCache) Get(ctx context.Context, matchID string) (string, bool, error) {
	score, err := c.client.Get(ctx, c.key(matchID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", matchID, err)
	}
	return score, true, nil
}

// Set stores the score with the configured expiry (0 keeps it forever).
func (c *RedisCache) Set(ctx context.Context, matchID, score string) error {
	if err := c.client.Set(ctx, c.key(matchID), score, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", matchID, err)
	}
	return nil
}

// Ping checks the server is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(matchID string) string {
	return c.prefix + ":" + matchID
}
