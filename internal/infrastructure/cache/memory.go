package cache

import (
	"context"
	"sync"
	"time"

	"github.com/orderlens/backend/internal/domain"
)

// cacheItem represents a single classification result with expiration
type cacheItem struct {
	Value      domain.ClassificationResult
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory classification cache with TTL
// support. Owned by the caller and injected into the services; there is no
// module-level cache state.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a classification result from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.ClassificationResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	value := item.Value
	return &value, nil
}

// Set stores a classification result with TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, result *domain.ClassificationResult, ttl time.Duration) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      *result,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes an entry from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically.
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring).
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
