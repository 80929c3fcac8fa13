package cache

import (
	"context"
	"log/slog"
	"time"
)

// maxL1Expiration caps how long a value lives in the in-process level
const maxL1Expiration = time.Hour

// MultiLevelCache implements a multi-level cache with an in-memory LRU L1 and a shared L2
type MultiLevelCache struct {
	l1 *MemoryCache
	l2 Cache
}

// NewMultiLevelCache creates a multi-level cache backed by Valkey
func NewMultiLevelCache(valkeyURL string, l1MaxItems int) (*MultiLevelCache, error) {
	l2, err := NewValkeyCache(valkeyURL)
	if err != nil {
		return nil, err
	}
	return newMultiLevelCache(l2, l1MaxItems)
}

func newMultiLevelCache(l2 Cache, l1MaxItems int) (*MultiLevelCache, error) {
	l1, err := NewMemoryCache(l1MaxItems)
	if err != nil {
		return nil, err
	}
	return &MultiLevelCache{l1: l1, l2: l2}, nil
}

// Get retrieves from L1 first, then L2
func (c *MultiLevelCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, _ := c.l1.Get(ctx, key); data != nil {
		return data, nil
	}

	data, err := c.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if data != nil {
		_ = c.l1.Set(ctx, key, data, maxL1Expiration)
	}

	return data, nil
}

// Set stores in both L1 and L2. An L2 failure still leaves L1 populated.
func (c *MultiLevelCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	l1Expiration := expiration
	if l1Expiration <= 0 || l1Expiration > maxL1Expiration {
		l1Expiration = maxL1Expiration
	}
	_ = c.l1.Set(ctx, key, value, l1Expiration)

	if err := c.l2.Set(ctx, key, value, expiration); err != nil {
		slog.Warn("Failed to write L2 cache", "key", key, "error", err)
		return err
	}
	return nil
}

// Delete removes from both levels
func (c *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = c.l1.Delete(ctx, key)
	return c.l2.Delete(ctx, key)
}

// Close closes both levels
func (c *MultiLevelCache) Close() error {
	_ = c.l1.Close()
	return c.l2.Close()
}

// Health checks L2 health
func (c *MultiLevelCache) Health(ctx context.Context) error {
	return c.l2.Health(ctx)
}
