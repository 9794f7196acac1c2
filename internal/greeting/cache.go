package greeting

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a generated greeting is reused.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores generated greetings by key.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear()
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a process-local Cache whose entries expire after a fixed
// TTL. Expired entries are ignored on read and replaced on the next Set;
// nothing purges them in the background.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// CacheOption configures a MemoryCache.
type CacheOption func(*MemoryCache)

// WithClock replaces the cache's time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a cache with the given TTL. A non-positive TTL
// uses DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration, opts ...CacheOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Set stores value under key, restarting its TTL.
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ Cache = (*MemoryCache)(nil)
