// Package limiter decides whether a request key (an IP, or "global") may proceed.
package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Local is an in-process token bucket per key.
type Local struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	lastGC  time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewLocal(rps float64, burst int) *Local {
	return &Local{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: map[string]*bucket{},
		ttl:     10 * time.Minute,
		lastGC:  time.Now(),
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	// Idle buckets are dropped so per-IP keys do not grow without bound.
	if now.Sub(l.lastGC) > l.ttl {
		for k, v := range l.buckets {
			if now.Sub(v.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}
	return b.lim.AllowN(now, 1), nil
}
