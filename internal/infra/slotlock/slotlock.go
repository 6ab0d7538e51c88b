// Package slotlock holds a (barber, start) pair for the short window in which
// a booking is validated and written, so two requests for the same slot
// serialize before reaching the database.
package slotlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

func Key(barberID string, start time.Time) string {
	return fmt.Sprintf("slot-hold:%s:%d", barberID, start.Unix())
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// only the holder's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("slot hold %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

// MemoryLocker is the single-process fallback used when Redis is not configured.
type MemoryLocker struct {
	mu    sync.Mutex
	holds map[string]hold
	now   func() time.Time
}

type hold struct {
	token     string
	expiresAt time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		holds: make(map[string]hold),
		now:   time.Now,
	}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, exists := l.holds[key]; exists && now.Before(h.expiresAt) {
		return nil, false, nil
	}

	token := uuid.NewString()
	l.holds[key] = hold{token: token, expiresAt: now.Add(ttl)}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if h, exists := l.holds[key]; exists && h.token == token {
			delete(l.holds, key)
		}
	}
	return release, true, nil
}
