// Package lock serializes lifecycle transitions per todo across processes.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "todo:lock:"
	defaultTTL    = 5 * time.Second
	retryInterval = 20 * time.Millisecond
)

// ErrNotAcquired is returned when the lock is still held by someone else
// after the wait budget is spent.
var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker hands out per-key locks stored in Redis with a TTL.
type RedisLocker struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
}

// NewRedisLocker returns a locker whose locks expire after ttl. Acquire waits
// up to wait for a busy lock.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait}
}

// Acquire takes the lock for key and returns its release function.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	redisKey := lockKeyPrefix + key
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.rdb, []string{redisKey}, token).Err()
			}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("lock %s: %w", key, ErrNotAcquired)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
