package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter deterministically.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, waiter{deadline: c.now.Add(d), ch: ch})
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.deadline.After(c.now) {
			w.ch <- c.now
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}

func TestAcquireWithinBudgetDoesNotBlock(t *testing.T) {
	clock := newFakeClock()
	limiter := newSlidingWindowLimiter(100, time.Minute, clock)

	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), "token-a"))
	}
	assert.Equal(t, 100, limiter.InFlight("token-a"))
}

func TestAcquireBlocksAtBudgetUntilWindowSlides(t *testing.T) {
	clock := newFakeClock()
	limiter := newSlidingWindowLimiter(100, time.Minute, clock)

	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Acquire(context.Background(), "token-a"))
	}

	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(context.Background(), "token-a")
	}()

	select {
	case <-done:
		t.Fatal("acquisition 101 must block while the window is full")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Minute)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("acquisition 101 did not unblock after the window slid")
	}
}

func TestAcquireKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := newSlidingWindowLimiter(2, time.Minute, clock)

	require.NoError(t, limiter.Acquire(context.Background(), "token-a"))
	require.NoError(t, limiter.Acquire(context.Background(), "token-a"))

	// a different token still has full budget
	require.NoError(t, limiter.Acquire(context.Background(), "token-b"))
	assert.Equal(t, 2, limiter.InFlight("token-a"))
	assert.Equal(t, 1, limiter.InFlight("token-b"))
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	clock := newFakeClock()
	limiter := newSlidingWindowLimiter(1, time.Minute, clock)

	require.NoError(t, limiter.Acquire(context.Background(), "token-a"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(ctx, "token-a")
	}()

	// give the goroutine time to park before cancelling
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled acquisition did not return")
	}
}

func TestPruneKeepsRecentStamps(t *testing.T) {
	clock := newFakeClock()
	limiter := newSlidingWindowLimiter(10, time.Minute, clock)

	require.NoError(t, limiter.Acquire(context.Background(), "token-a"))
	clock.Advance(30 * time.Second)
	require.NoError(t, limiter.Acquire(context.Background(), "token-a"))
	clock.Advance(31 * time.Second)

	// the first stamp aged out, the second is still in the window
	assert.Equal(t, 1, limiter.InFlight("token-a"))
}
