package cache

import (
	"container/list"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"sentra-hq/sentra/pkg/scan"
)

// Key identifies a cached verdict.
type Key uint64

// NewKey hashes the scan phase, the scanner roster, and the input text into
// a cache key. The roster must be in execution order; a different order is a
// different key since sequential chaining makes order significant.
func NewKey(phase string, scanners []string, text string) Key {
	d := xxhash.New()
	_, _ = d.WriteString(phase)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.Join(scanners, "\x00"))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(text)
	return Key(d.Sum64())
}

// String renders the key as a fixed-width hex digest.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

type entry struct {
	key      Key
	result   *scan.Result
	expires  time.Time
	position *list.Element
}

// Cache is a fixed-capacity TTL cache for scan results. It is safe for
// concurrent use.
type Cache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[Key]*entry
	order   *list.List // front = oldest

	hits   uint64
	misses uint64
}

// New creates a cache. maxEntries must be positive; ttl must be positive.
func New(ttl time.Duration, maxEntries int) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache: ttl must be positive, got %v", ttl)
	}
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache: max entries must be positive, got %d", maxEntries)
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[Key]*entry),
		order:      list.New(),
	}, nil
}

// Get returns the cached result for key, or nil if absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(key Key) *scan.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	if time.Now().After(e.expires) {
		c.removeLocked(e)
		c.misses++
		return nil
	}
	c.hits++
	return e.result
}

// Put stores a result under key, evicting the oldest entry if the cache is
// full. Storing under an existing key refreshes its TTL.
func (c *Cache) Put(key Key, result *scan.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.result = result
		e.expires = time.Now().Add(c.ttl)
		c.order.MoveToBack(e.position)
		return
	}

	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest.Value.(*entry))
	}

	e := &entry{
		key:     key,
		result:  result,
		expires: time.Now().Add(c.ttl),
	}
	e.position = c.order.PushBack(e)
	c.entries[key] = e
}

// Len returns the number of entries currently stored, including any that
// have expired but not yet been evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge removes all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.order.Init()
}

func (c *Cache) removeLocked(e *entry) {
	delete(c.entries, e.key)
	c.order.Remove(e.position)
}
