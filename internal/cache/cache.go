// Package cache implements the two-tier read cache in front of the database:
// an in-process LRU backed by Redis when Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	l1     *LRU[[]byte]
	l2     redis.Cmdable
	l2TTL  time.Duration
	prefix string
}

// sharedL1TTL bounds how long an instance serves its own copy once Redis is
// shared, since invalidation only reaches the local tier and Redis.
const sharedL1TTL = 5 * time.Second

// NewMultiTierCache builds a cache. A nil redis client leaves only the
// in-process tier, whose entries then live for l2TTL. With a client the
// in-process tier keeps entries for at most sharedL1TTL.
func NewMultiTierCache(l1Capacity int, client redis.Cmdable, l2TTL time.Duration, prefix string) *Cache {
	l1TTL := l2TTL
	if client != nil && (l1TTL <= 0 || l1TTL > sharedL1TTL) {
		l1TTL = sharedL1TTL
	}
	return &Cache{
		l1:     NewLRU[[]byte](l1Capacity, l1TTL),
		l2:     client,
		l2TTL:  l2TTL,
		prefix: prefix,
	}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get reports a miss with a nil error when neither tier has the key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if val, found := c.l1.Get(key); found {
		return val, true, nil
	}
	if c.l2 == nil {
		return nil, false, nil
	}

	val, err := c.l2.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	c.l1.Set(key, val)
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	c.l1.Set(key, value)
	if c.l2 == nil {
		return nil
	}
	if err := c.l2.Set(ctx, c.key(key), value, c.l2TTL).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(key)
	if c.l2 == nil {
		return nil
	}
	if err := c.l2.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		// A corrupt entry is dropped so the next read repopulates it.
		_ = c.Delete(ctx, key)
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data)
}
