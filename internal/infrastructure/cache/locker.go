package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

// ReleaseFunc gives a lock back.
type ReleaseFunc func(ctx context.Context) error

// RedisLocker takes short-lived locks with SET NX so that concurrent
// instances agree on who holds a key.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// TryLock returns ok=false without waiting when key is already held.
func (l *RedisLocker) TryLock(ctx context.Context, key string) (ReleaseFunc, bool, error) {
	release, err := helpers.RedisTryLock(ctx, l.rdb, "lock:"+key, uuid.NewString(), l.ttl)
	if err != nil || release == nil {
		return nil, false, err
	}
	return release, true, nil
}

// MemoryLocker is the single-process equivalent of RedisLocker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) TryLock(ctx context.Context, key string) (ReleaseFunc, bool, error) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, true, nil
}
