package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/channelsync/backend/internal/domain/integration"
)

// entry represents a stored order key with expiration
type entry struct {
	expiresAt time.Time
}

// InMemorySeenOrderCache implements SeenOrderCache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemorySeenOrderCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ integration.SeenOrderCache = (*InMemorySeenOrderCache)(nil)

// NewInMemorySeenOrderCache creates a new in-memory seen-order cache. It
// starts a background goroutine to clean up expired entries.
func NewInMemorySeenOrderCache(ttl time.Duration) *InMemorySeenOrderCache {
	if ttl == 0 {
		ttl = defaultSeenTTL
	}
	cache := &InMemorySeenOrderCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

func seenKey(integrationUUID uuid.UUID, externalOrderID string) string {
	return integrationUUID.String() + ":" + externalOrderID
}

// Seen reports whether the order was recently recorded for the integration
func (c *InMemorySeenOrderCache) Seen(_ context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[seenKey(integrationUUID, externalOrderID)]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as not seen
	}
	return true, nil
}

// MarkSeen records the order with the cache TTL
func (c *InMemorySeenOrderCache) MarkSeen(_ context.Context, integrationUUID uuid.UUID, externalOrderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[seenKey(integrationUUID, externalOrderID)] = entry{
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemorySeenOrderCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemorySeenOrderCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemorySeenOrderCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
