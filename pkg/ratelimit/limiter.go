// Package ratelimit provides fixed-window request limiting backed by Redis,
// with an in-process fallback for single-instance deployments.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	Allow(ctx context.Context, key string) Decision
}

type Decision struct {
	WindowEnd time.Time
	Count     int
	Limit     int
	Allowed   bool
}

type RedisLimiter struct {
	client  *redis.Client
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client:  client,
		prefix:  "tasks:ratelimit:",
		limit:   limit,
		window:  window,
		timeout: 250 * time.Millisecond,
	}
}

// Allow counts the hit against key. Redis failures let the request through.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) Decision {
	if rl.limit <= 0 {
		return Decision{Allowed: true}
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key

	// EXPIRE NX arms the window on the first hit and re-arms a key that lost
	// its TTL, without extending a running window.
	var incr *redis.IntCmd
	var ttlCmd *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, rl.window)
		ttlCmd = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		slog.Error("redis rate limiter error", "op", "incr", "error", err)
		return Decision{Allowed: true, Limit: rl.limit}
	}

	counter := incr.Val()
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		ttl = rl.window
	}

	return Decision{
		Allowed:   int(counter) <= rl.limit,
		Count:     int(counter),
		Limit:     rl.limit,
		WindowEnd: time.Now().Add(ttl),
	}
}

type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]windowState
	limit   int
	window  time.Duration
	now     func() time.Time
}

type windowState struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		entries: make(map[string]windowState),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) Decision {
	if rl.limit <= 0 {
		return Decision{Allowed: true}
	}
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// expired windows are dropped lazily
	for k, s := range rl.entries {
		if now.After(s.windowEnd) {
			delete(rl.entries, k)
		}
	}

	state, ok := rl.entries[key]
	if !ok {
		state = windowState{windowEnd: now.Add(rl.window)}
	}
	state.count++
	rl.entries[key] = state

	return Decision{
		Allowed:   state.count <= rl.limit,
		Count:     state.count,
		Limit:     rl.limit,
		WindowEnd: state.windowEnd,
	}
}
