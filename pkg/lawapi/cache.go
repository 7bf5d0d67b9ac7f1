package lawapi

import (
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached law rows and
// articles. Statute text changes rarely; a process-lifetime cache is fine.
const DefaultCacheTTL = 6 * time.Hour

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe, in-memory TTL cache. Entries are lazily expired on
// access. A non-positive TTL disables expiry.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry[V]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewCache creates a new cache with the given default TTL.
func NewCache[V any](defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]cacheEntry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the cached value and true if found and not expired.
func (cache *Cache[V]) Get(key string) (V, bool) {
	cache.mu.RLock()
	entry, exists := cache.entries[key]
	cache.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if cache.expired(entry) {
		cache.mu.Lock()
		// Re-check in case another goroutine already replaced it.
		if current, stillExists := cache.entries[key]; stillExists && cache.expired(current) {
			delete(cache.entries, key)
		}
		cache.mu.Unlock()
		return zero, false
	}

	return entry.value, true
}

// Set stores a value with the default TTL.
func (cache *Cache[V]) Set(key string, value V) {
	entry := cacheEntry[V]{value: value}
	if cache.defaultTTL > 0 {
		entry.expiresAt = cache.now().Add(cache.defaultTTL)
	}

	cache.mu.Lock()
	cache.entries[key] = entry
	cache.mu.Unlock()
}

// Invalidate removes a specific entry.
func (cache *Cache[V]) Invalidate(key string) {
	cache.mu.Lock()
	delete(cache.entries, key)
	cache.mu.Unlock()
}

// Len returns the number of entries, including ones not yet lazily expired.
func (cache *Cache[V]) Len() int {
	cache.mu.RLock()
	count := len(cache.entries)
	cache.mu.RUnlock()
	return count
}

func (cache *Cache[V]) expired(entry cacheEntry[V]) bool {
	return !entry.expiresAt.IsZero() && cache.now().After(entry.expiresAt)
}
