package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// MemoryCache is a bounded in-process LRU cache with per-item expiry
type MemoryCache struct {
	items *lru.Cache[string, cacheItem]
	now   func() time.Time
}

// NewMemoryCache creates an LRU cache holding at most size items
func NewMemoryCache(size int) (*MemoryCache, error) {
	items, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryCache{items: items, now: time.Now}, nil
}

// Get returns the value for key, dropping it when expired
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	item, ok := c.items.Get(key)
	if !ok {
		return nil, nil
	}
	if item.expired(c.now()) {
		c.items.Remove(key)
		return nil, nil
	}
	return item.data, nil
}

// Set stores value; a non-positive expiration never expires
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	item := cacheItem{data: value}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}
	c.items.Add(key, item)
	return nil
}

// Delete removes key
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.items.Remove(key)
	return nil
}

// Len returns the number of stored items, including expired ones not yet evicted
func (c *MemoryCache) Len() int {
	return c.items.Len()
}

// Close purges all items
func (c *MemoryCache) Close() error {
	c.items.Purge()
	return nil
}

// Health always succeeds for the in-process cache
func (c *MemoryCache) Health(context.Context) error {
	return nil
}
