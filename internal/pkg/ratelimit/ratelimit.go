package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// defaultMaxKeys bounds the number of tracked callers.
const defaultMaxKeys = 10000

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenBucket is an in-memory per-key limiter. Use RedisLimiter when running more than one replica.
type TokenBucket struct {
	capacity int
	rate     float64 // tokens per second
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *bucket]
	now      func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates limiter with capacity tokens refilled at perMinute.
// Buckets idle long enough to be full again are forgotten.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	return newTokenBucket(capacity, perMinute, defaultMaxKeys)
}

func newTokenBucket(capacity, perMinute, maxKeys int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	rate := float64(perMinute) / 60
	return &TokenBucket{
		capacity: capacity,
		rate:     rate,
		buckets:  expirable.NewLRU[string, *bucket](maxKeys, nil, idleTTL(capacity, rate)),
		now:      time.Now,
	}
}

// idleTTL is the time an empty bucket needs to refill completely.
func idleTTL(capacity int, rate float64) time.Duration {
	if rate <= 0 {
		return time.Hour
	}
	ttl := time.Duration(float64(capacity) / rate * float64(time.Second))
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}

// Len reports how many callers are currently tracked.
func (l *TokenBucket) Len() int {
	return l.buckets.Len()
}

func (l *TokenBucket) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets.Get(key)
	if !ok {
		l.buckets.Add(key, &bucket{tokens: float64(l.capacity) - 1, last: now})
		return true, nil
	}
	// Add again so the expiry counts from the latest request
	l.buckets.Add(key, b)

	b.tokens += now.Sub(b.last).Seconds() * l.rate
	if b.tokens > float64(l.capacity) {
		b.tokens = float64(l.capacity)
	}
	b.last = now

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}
