// Package cache provides the process-shared read-model cache for mapped
// financial records. Entries are keyed by account id or by list query; every
// mutation against the backend must invalidate the entries that could contain
// the mutated account, or callers will observe stale settlement state.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ReadModelCache stores JSON-encoded read models with a TTL
type ReadModelCache interface {
	// Get returns the cached payload for key and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the payload under key for the given TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes the given keys
	Invalidate(ctx context.Context, keys ...string) error
	// InvalidatePrefix removes every key starting with prefix
	InvalidatePrefix(ctx context.Context, prefix string) error
	// Close releases resources held by the cache
	Close() error
}

// entry represents a stored payload with expiration
type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache implements ReadModelCache using an in-memory map.
// Suitable for single-instance deployments and testing; state is not shared
// across processes.
type InMemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCache creates a new in-memory cache and starts a background
// goroutine that sweeps expired entries
func NewInMemoryCache() *InMemoryCache {
	c := &InMemoryCache{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.sweepLoop()

	return c
}

// Get returns the cached payload for key, treating expired entries as absent
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores the payload under key for the given TTL
func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate removes the given keys
func (c *InMemoryCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// InvalidatePrefix removes every key starting with prefix
func (c *InMemoryCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (c *InMemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// sweepLoop periodically removes expired entries
func (c *InMemoryCache) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *InMemoryCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ ReadModelCache = (*InMemoryCache)(nil)
