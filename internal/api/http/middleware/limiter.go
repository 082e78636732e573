package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/praxiskit/praxis_backend/config"
)

// Rejection is the terminal answer of the rate-limit gate.
type Rejection struct {
	// RetryAfter is how long the client should wait before retrying.
	RetryAfter time.Duration

	// Limit is the configured window allowance, for the response body.
	Limit int
}

// RateLimitGate is the optional gate consulted for API-prefixed paths.
// Implementations must be safe for concurrent per-request access.
type RateLimitGate interface {
	Enabled() bool

	// Check counts one request for the given client and returns a
	// Rejection when the window allowance is exhausted, nil otherwise.
	// An error means the gate itself failed; the pipeline fails open.
	Check(ctx context.Context, clientIP string) (*Rejection, error)
}

// redisKeyWindow returns the Redis key for a client's request window.
func redisKeyWindow(clientIP string) string { return "ratelimit:" + clientIP }

// RedisGate is a fixed-window rate limiter backed by Redis. The window
// counter is advanced with INCR, which is atomic, so concurrent requests
// from one client can never under-count.
type RedisGate struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisGate(rdb *redis.Client, cfg config.RateLimitConfig) *RedisGate {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &RedisGate{
		rdb:    rdb,
		limit:  cfg.RequestsPerWindow,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
	}
}

// Enabled reports whether the gate should be consulted. A nil *RedisGate
// is a disabled gate, so deployments without rate limiting pay nothing.
func (g *RedisGate) Enabled() bool {
	return g != nil && g.rdb != nil
}

func (g *RedisGate) Check(ctx context.Context, clientIP string) (*Rejection, error) {
	key := redisKeyWindow(clientIP)

	count, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit incr: %w", err)
	}

	// First hit opens the window.
	if count == 1 {
		if err := g.rdb.Expire(ctx, key, g.window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	if count <= int64(g.limit) {
		return nil, nil
	}

	retryAfter := g.window
	if ttl, err := g.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		retryAfter = ttl
	}

	return &Rejection{RetryAfter: retryAfter, Limit: g.limit}, nil
}
