package services

import (
	"context"
	"fmt"
	"time"

	"main/model"

	"github.com/redis/go-redis/v9"
)

// ShieldStatusCache keeps the per-user shield status in Redis so the
// token verification hot path does not hit Mongo on every attempt. Every
// state transition invalidates the entry; a miss falls through to the
// store, so staleness is bounded by the TTL and only ever on the
// conservative side of a fresh transition.
type ShieldStatusCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// GlobalShieldCache is the process-wide instance
var GlobalShieldCache *ShieldStatusCache

// NewShieldStatusCache creates a Redis-backed status cache
func NewShieldStatusCache(redisURL string, ttl time.Duration) (*ShieldStatusCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ShieldStatusCache{Client: client, TTL: ttl}, nil
}

func (sc *ShieldStatusCache) key(userID string) string {
	return fmt.Sprintf("shield:status:%s", userID)
}

// Get returns the cached status, or "" on a miss.
func (sc *ShieldStatusCache) Get(ctx context.Context, userID string) (model.ShieldStatus, error) {
	value, err := sc.Client.Get(ctx, sc.key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read shield status cache: %v", err)
	}
	return model.ShieldStatus(value), nil
}

// Set caches the status with the configured TTL.
func (sc *ShieldStatusCache) Set(ctx context.Context, userID string, status model.ShieldStatus) error {
	if err := sc.Client.Set(ctx, sc.key(userID), string(status), sc.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache shield status: %v", err)
	}
	return nil
}

// Invalidate drops the cached status. Called on every transition.
func (sc *ShieldStatusCache) Invalidate(ctx context.Context, userID string) error {
	if err := sc.Client.Del(ctx, sc.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate shield status cache: %v", err)
	}
	return nil
}

// IsConnected checks if the Redis connection is alive
func (sc *ShieldStatusCache) IsConnected() bool {
	if sc == nil || sc.Client == nil {
		return false
	}
	ctx := context.Background()
	return sc.Client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (sc *ShieldStatusCache) Close() error {
	return sc.Client.Close()
}
