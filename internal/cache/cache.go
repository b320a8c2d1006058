package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe keyed store that always answers reads. A key that
// has never been written returns the placeholder value. Writers replace the
// whole entry, so readers never see a partial update.
type Cache[T any] struct {
	entries     map[string]*Entry[T]
	placeholder T
	mutex       sync.RWMutex
}

// Entry is a cached value with metadata
type Entry[T any] struct {
	Key             string        `json:"key"`
	Value           T             `json:"value"`
	CreatedAt       time.Time     `json:"created_at"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	Source          string        `json:"source"`
}

// Stats provides cache usage statistics
type Stats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	OldestEntry  time.Time
	NewestEntry  time.Time
}

// New creates a cache that serves placeholder until a key is first set
func New[T any](placeholder T) *Cache[T] {
	return &Cache[T]{
		entries:     make(map[string]*Entry[T]),
		placeholder: placeholder,
	}
}

// Set replaces the entry for key
func (c *Cache[T]) Set(key string, value T, refreshInterval time.Duration, source string) {
	entry := &Entry[T]{
		Key:             key,
		Value:           value,
		CreatedAt:       time.Now(),
		RefreshInterval: refreshInterval,
		Source:          source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry
}

// Get returns the value for key, or the placeholder if it was never set. The
// second result reports whether a real value was found.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return c.placeholder, false
	}
	return entry.Value, true
}

// GetWithMetadata returns a copy of the entry for key
func (c *Cache[T]) GetWithMetadata(key string) (Entry[T], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return Entry[T]{Key: key, Value: c.placeholder}, false
	}
	return *entry, true
}

// IsStale checks if the entry is older than its refresh interval
func (c *Cache[T]) IsStale(key string) bool {
	return c.olderThan(key, 1)
}

// IsVeryStale checks if the entry is older than twice its refresh interval,
// meaning at least one refresh has been missed
func (c *Cache[T]) IsVeryStale(key string) bool {
	return c.olderThan(key, 2)
}

func (c *Cache[T]) olderThan(key string, intervals time.Duration) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}
	return time.Now().After(entry.CreatedAt.Add(entry.RefreshInterval * intervals))
}

// Stats returns cache statistics
func (c *Cache[T]) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	stats := Stats{
		TotalEntries: len(c.entries),
	}

	for _, entry := range c.entries {
		if now.After(entry.CreatedAt.Add(entry.RefreshInterval)) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}
