// Package cache provides a bounded, expiring in-process cache with LRU eviction.
package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrInvalidConfig is returned when a cache is constructed with unusable settings.
	ErrInvalidConfig = errors.New("invalid cache configuration")
	// ErrInvalidMaxSize is returned when maxSize is not positive.
	ErrInvalidMaxSize = fmt.Errorf("%w: max size must be positive", ErrInvalidConfig)
	// ErrInvalidTTL is returned when the default TTL is not positive.
	ErrInvalidTTL = fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
)

// Metrics holds cumulative cache counters.
type Metrics struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// HitRate returns hits/(hits+misses), or 0 when nothing was looked up yet.
func (m Metrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// Stats is a point-in-time view of a cache.
type Stats struct {
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	Utilization float64 `json:"utilization"`
	Metrics     Metrics `json:"metrics"`
	HitRate     float64 `json:"hit_rate"`
}

// EntryInfo describes a live entry without affecting its recency.
type EntryInfo struct {
	HitCount  int64
	ExpiresAt time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now  func() time.Time
	name string
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithName labels the cache in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Cache is a thread-safe LRU cache with per-entry TTL.
// All operations on one instance are serialized by a single mutex.
type Cache[V any] struct {
	mu         sync.Mutex
	name       string
	maxSize    int
	defaultTTL time.Duration
	items      map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
	metrics    Metrics
	now        func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	hits      int64
	prev      *entry[V]
	next      *entry[V]
}

// New creates a cache holding at most maxSize entries, each living defaultTTL
// unless a different TTL is given on Set.
func New[V any](maxSize int, defaultTTL time.Duration, opts ...Option) (*Cache[V], error) {
	if maxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if defaultTTL <= 0 {
		return nil, ErrInvalidTTL
	}

	o := options{now: time.Now, name: "default"}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		name:       o.name,
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		items:      make(map[string]*entry[V], maxSize),
		now:        o.now,
	}, nil
}

// Name returns the label given with WithName.
func (c *Cache[V]) Name() string {
	return c.name
}

// DefaultTTL returns the TTL applied when Set is used.
func (c *Cache[V]) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get returns the value stored under key. Unknown and expired keys count as
// misses; expired entries are removed on the way.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.metrics.Misses++
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		c.removeEntry(e)
		c.metrics.Misses++
		return zero, false
	}

	c.metrics.Hits++
	e.hits++
	c.moveToFront(e)
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key. A non-positive ttl means the default TTL.
// Least recently used entries are evicted until the size bound holds.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := c.now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		e.hits = 0
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = e
	c.addToFront(e)

	for len(c.items) > c.maxSize {
		c.removeEntry(c.tail)
		c.metrics.Evictions++
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeEntry(e)
	return true
}

// Clear drops every entry. Metrics are kept.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V], c.maxSize)
	c.head = nil
	c.tail = nil
}

// CleanupExpired removes every entry whose deadline has passed and returns
// how many were removed.
func (c *Cache[V]) CleanupExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, e := range c.items {
		if !now.Before(e.expiresAt) {
			c.removeEntry(e)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Metrics returns a copy of the cumulative counters.
func (c *Cache[V]) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Stats returns size, bound, utilization and counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := len(c.items)
	return Stats{
		Size:        size,
		MaxSize:     c.maxSize,
		Utilization: float64(size) / float64(c.maxSize),
		Metrics:     c.metrics,
		HitRate:     c.metrics.HitRate(),
	}
}

// Inspect reports the hit count and deadline of a live entry. It does not
// count as an access.
func (c *Cache[V]) Inspect(key string) (EntryInfo, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || !now.Before(e.expiresAt) {
		return EntryInfo{}, false
	}
	return EntryInfo{HitCount: e.hits, ExpiresAt: e.expiresAt}, true
}

func (c *Cache[V]) removeEntry(e *entry[V]) {
	delete(c.items, e.key)
	c.unlink(e)
}

func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache[V]) addToFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
