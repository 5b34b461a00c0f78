// Package build provides the batch rendering pipeline: a bounded worker pool
// that renders registered documents, a result cache with LRU eviction and TTL
// support, and per-run summaries.
package build

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache caches rendered HTML keyed by the pipeline's document
// fingerprint, with LRU eviction and TTL.
type Cache struct {
	entries     map[string]*cacheEntry
	mutex       sync.Mutex
	maxSize     int64
	currentSize int64
	ttl         time.Duration
	// LRU doubly-linked list
	head *cacheEntry
	tail *cacheEntry
	// Statistics tracking (atomic for thread safety)
	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

type cacheEntry struct {
	key        string
	value      string
	createdAt  time.Time
	accessedAt time.Time
	size       int64
	prev       *cacheEntry
	next       *cacheEntry
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Entries   int
	Size      int64
	MaxSize   int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns the cache hit rate between 0.0 and 1.0.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache creates a render cache bounded to maxSize bytes of HTML. Entries
// older than ttl are treated as misses.
func NewCache(maxSize int64, ttl time.Duration) *Cache {
	cache := &Cache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}

	// Dummy head and tail keep list operations branch-free
	cache.head = &cacheEntry{}
	cache.tail = &cacheEntry{}
	cache.head.next = cache.tail
	cache.tail.prev = cache.head

	return cache
}

// Get retrieves rendered HTML from the cache.
func (c *Cache) Get(key string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	if time.Since(entry.createdAt) > c.ttl {
		c.removeFromList(entry)
		delete(c.entries, key)
		c.currentSize -= entry.size
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	c.moveToFront(entry)
	entry.accessedAt = time.Now()
	atomic.AddInt64(&c.hits, 1)
	return entry.value, true
}

// Set stores rendered HTML in the cache. Overwriting a key replaces the
// entry outright so the size budget holds for updates too.
func (c *Cache) Set(key, value string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if existing, exists := c.entries[key]; exists {
		c.removeFromList(existing)
		delete(c.entries, key)
		c.currentSize -= existing.size
	}

	c.evictIfNeeded(int64(len(value)))

	entry := &cacheEntry{
		key:        key,
		value:      value,
		createdAt:  time.Now(),
		accessedAt: time.Now(),
		size:       int64(len(value)),
	}

	c.entries[key] = entry
	c.currentSize += entry.size
	c.addToFront(entry)
	atomic.AddInt64(&c.sets, 1)
}

// evictIfNeeded evicts least recently used entries until newSize fits.
func (c *Cache) evictIfNeeded(newSize int64) {
	if c.currentSize+newSize <= c.maxSize {
		return
	}

	for c.currentSize+newSize > c.maxSize && c.tail.prev != c.head {
		lru := c.tail.prev
		c.removeFromList(lru)
		delete(c.entries, lru.key)
		c.currentSize -= lru.size
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Clear removes all entries and resets statistics.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.currentSize = 0

	c.head.next = c.tail
	c.tail.prev = c.head

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.sets, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return CacheStats{
		Entries:   len(c.entries),
		Size:      c.currentSize,
		MaxSize:   c.maxSize,
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
	}
}

// LRU doubly-linked list operations

func (c *Cache) addToFront(entry *cacheEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *Cache) removeFromList(entry *cacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *Cache) moveToFront(entry *cacheEntry) {
	c.removeFromList(entry)
	c.addToFront(entry)
}
