package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/channelsync/backend/internal/domain/integration"
)

const defaultSeenTTL = 24 * time.Hour

// RedisSeenOrderCache implements SeenOrderCache using Redis. It is a
// best-effort dedup layer in front of the order store, suitable for
// distributed deployments where multiple instances share intake state. A
// cache miss is never authoritative.
type RedisSeenOrderCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var _ integration.SeenOrderCache = (*RedisSeenOrderCache)(nil)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSeenOrderCache creates a new Redis-backed seen-order cache
func NewRedisSeenOrderCache(cfg RedisConfig) (*RedisSeenOrderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSeenOrderCache{
		client:    client,
		keyPrefix: "order:seen:",
		ttl:       defaultSeenTTL,
	}, nil
}

// NewRedisSeenOrderCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisSeenOrderCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSeenOrderCache {
	if keyPrefix == "" {
		keyPrefix = "order:seen:"
	}
	if ttl == 0 {
		ttl = defaultSeenTTL
	}
	return &RedisSeenOrderCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisSeenOrderCache) key(integrationUUID uuid.UUID, externalOrderID string) string {
	return c.keyPrefix + integrationUUID.String() + ":" + externalOrderID
}

// Seen reports whether the order was recently recorded for the integration
func (c *RedisSeenOrderCache) Seen(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.key(integrationUUID, externalOrderID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check seen order: %w", err)
	}
	return exists > 0, nil
}

// MarkSeen records the order with a TTL
func (c *RedisSeenOrderCache) MarkSeen(ctx context.Context, integrationUUID uuid.UUID, externalOrderID string) error {
	if err := c.client.Set(ctx, c.key(integrationUUID, externalOrderID), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark order as seen: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSeenOrderCache) Close() error {
	return c.client.Close()
}
