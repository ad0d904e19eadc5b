// Package ratelimit implements a Redis fixed-window counter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrNoStore is returned by Check when no Redis client is configured
var ErrNoStore = errors.New("rate limit store not configured")

// Limiter allows Limit hits per Window for each (resource, id) pair
type Limiter struct {
	rdb    *redis.Client
	Limit  int
	Window time.Duration
}

// New returns a limiter; rdb may be nil, in which case Allow always succeeds
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, Limit: limit, Window: window}
}

func key(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// Check increments the counter for resource/id and reports whether the hit is within the limit
func (l *Limiter) Check(ctx context.Context, resource, id string) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, ErrNoStore
	}
	if l.Limit <= 0 {
		return true, nil
	}

	k := key(resource, id)
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := l.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	}); err != nil {
		return false, err
	}

	// A counter without a TTL is a new window, or one whose earlier EXPIRE failed
	if ttl.Val() < 0 {
		if err := l.rdb.Expire(ctx, k, l.Window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= int64(l.Limit), nil
}

// Allow is Check with a fail-open policy: store errors let the request through
func (l *Limiter) Allow(ctx context.Context, resource, id string) bool {
	allowed, err := l.Check(ctx, resource, id)
	if err != nil {
		if !errors.Is(err, ErrNoStore) {
			log.Warn().Err(err).Str("resource", resource).Msg("rate limit check failed, allowing request")
		}
		return true
	}
	return allowed
}
