// Package ratelimit implements the client-side request budget enforced
// against external APIs with hard per-token quotas.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SlidingWindowLimiter admits at most limit acquisitions per key within any
// rolling window. When a key's budget is exhausted, Acquire blocks until the
// oldest in-window acquisition ages out. Waiters on the same key queue on
// the key's lock, so they are admitted in arrival order.
type SlidingWindowLimiter struct {
	limit  int
	window time.Duration
	clock  Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	mu     sync.Mutex
	stamps []time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting limit acquisitions per
// key per window.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return newSlidingWindowLimiter(limit, window, systemClock{})
}

func newSlidingWindowLimiter(limit int, window time.Duration, clock Clock) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:   limit,
		window:  window,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Acquire blocks until the key has budget for one request, then consumes it.
// Returns ctx.Err() if the context ends first.
func (l *SlidingWindowLimiter) Acquire(ctx context.Context, key string) error {
	b := l.bucket(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		now := l.clock.Now()
		b.prune(now.Add(-l.window))

		if len(b.stamps) < l.limit {
			b.stamps = append(b.stamps, now)
			return nil
		}

		// budget exhausted; wait for the oldest stamp to leave the window
		wait := b.stamps[0].Add(l.window).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(wait):
		}
	}
}

// InFlight reports how many acquisitions for the key are inside the current
// window.
func (l *SlidingWindowLimiter) InFlight(key string) int {
	b := l.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune(l.clock.Now().Add(-l.window))
	return len(b.stamps)
}

func (l *SlidingWindowLimiter) bucket(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	return b
}

// prune drops stamps at or before the cutoff. Caller holds b.mu.
func (b *bucket) prune(cutoff time.Time) {
	i := 0
	for i < len(b.stamps) && !b.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		b.stamps = append(b.stamps[:0], b.stamps[i:]...)
	}
}
