package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerifyLimiter throttles token verification attempts per client IP and
// per token hash. The persistent attempt counter on the token is the
// real lockout; this limiter just slows parallel brute force down before
// it reaches the store.
type VerifyLimiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
}

// GlobalVerifyLimiter is the process-wide instance
var GlobalVerifyLimiter *VerifyLimiter

// NewVerifyLimiter creates a Redis-backed fixed window limiter
func NewVerifyLimiter(redisURL string, limit int, window time.Duration) (*VerifyLimiter, error) {
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

	return &VerifyLimiter{Client: client, Limit: limit, Window: window}, nil
}

// Allow counts an attempt against the key and reports whether it is
// still within the window budget. Fails open on Redis errors; the
// per-token attempt lockout still holds.
func (vl *VerifyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("verify:rate:%s", key)

	pipe := vl.Client.Pipeline()
	countCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, vl.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("failed to check rate limit: %v", err)
	}

	return countCmd.Val() <= int64(vl.Limit), nil
}

// IsConnected checks if the Redis connection is alive
func (vl *VerifyLimiter) IsConnected() bool {
	if vl == nil || vl.Client == nil {
		return false
	}
	ctx := context.Background()
	return vl.Client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (vl *VerifyLimiter) Close() error {
	return vl.Client.Close()
}
