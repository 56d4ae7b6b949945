// Package ratelimit counts attempts per key in fixed windows.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Count     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left in the current window, rounded up to whole
// seconds and never below one.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return time.Second
	}
	if rem := wait % time.Second; rem != 0 {
		wait += time.Second - rem
	}
	return wait
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close() error
}

// RedisLimiter keeps one INCR counter per key that expires with its window.
// Redis failures allow the request.
type RedisLimiter struct {
	client  *redis.Client
	log     *slog.Logger
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisLimiter connects to Redis and pings it once.
func NewRedisLimiter(ctx context.Context, opts Options, log *slog.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", opts.Addr).Wrap(err)
	}

	return newRedisLimiter(client, log), nil
}

func newRedisLimiter(client *redis.Client, log *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		log:     log,
		prefix:  "edulytics:ratelimit:",
		timeout: 250 * time.Millisecond,
		now:     time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := l.prefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logError("incr", err)
		return Decision{Allowed: true, Remaining: limit}
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			l.logError("expire", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}

	return Decision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		Remaining: max(limit-int(count), 0),
		ResetAt:   l.now().Add(ttl),
	}
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

func (l *RedisLimiter) logError(op string, err error) {
	if l.log == nil {
		return
	}
	l.log.Error("redis rate limiter error", "op", op, "error", err)
}
