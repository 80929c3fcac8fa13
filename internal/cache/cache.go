package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"musicshare/internal/config"
)

// Cache defines the interface for caching upstream responses
type Cache interface {
	// Get retrieves a value from cache; a miss returns (nil, nil)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection
	Close() error

	// Health checks cache health
	Health(ctx context.Context) error
}

// New builds the response cache described by cfg. It returns a nil Cache
// when caching is disabled; callers treat nil as "no cache".
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.ValkeyURL == "" {
		memory, err := NewMemoryCache(cfg.Size)
		if err != nil {
			return nil, err
		}
		slog.Info("Using in-memory response cache", "size", cfg.Size)
		return memory, nil
	}

	multi, err := NewMultiLevelCache(cfg.ValkeyURL, cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize response cache: %w", err)
	}
	slog.Info("Using multi-level response cache", "size", cfg.Size)
	return multi, nil
}

// CacheError represents a cache operation error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
