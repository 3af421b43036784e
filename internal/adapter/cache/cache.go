package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
)

// CachedDecoder wraps a Decoder with an in-memory LRU cache.
//
// Entries are keyed by code, forced kind, and now truncated to the UTC hour
// plus now's location. Air results only depend on the hour of now and
// Surface/Ocean results only on its year and location, so a hit is always
// identical to a fresh decode.
type CachedDecoder struct {
	inner   domain.Decoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedDecoder creates a cache decorator around a decoder. metrics may be nil.
func NewCachedDecoder(inner domain.Decoder, maxEntries int, metrics *observability.Metrics) *CachedDecoder {
	return &CachedDecoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedDecoder) Decode(q domain.DecodeQuery) ([]time.Time, error) {
	key := cacheKey(q)
	if dates, ok := c.cache.get(key); ok {
		c.observe("hit")
		return dates, nil
	}
	c.observe("miss")

	dates, err := c.inner.Decode(q)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, dates)
	return cloneDates(dates), nil
}

// Len reports the number of cached entries.
func (c *CachedDecoder) Len() int {
	return c.cache.len()
}

func (c *CachedDecoder) observe(result string) {
	if c.metrics != nil {
		c.metrics.DecodeCache.WithLabelValues(result).Inc()
	}
}

func cacheKey(q domain.DecodeQuery) string {
	kind := "auto"
	if q.Kind != nil {
		kind = q.Kind.String()
	}
	// Air results depend on the UTC hour. Surface and Ocean results depend on
	// the local year and are built in now's zone. Zones parsed from RFC 3339
	// offsets are all named "", so the offset is keyed alongside the name.
	hour := q.Now.UTC().Truncate(time.Hour).Unix()
	return fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		strings.ToUpper(strings.TrimSpace(q.Code)), kind, hour,
		q.Now.Year(), q.Now.Format("-07:00"), q.Now.Location())
}

func cloneDates(dates []time.Time) []time.Time {
	if dates == nil {
		return nil
	}
	out := make([]time.Time, len(dates))
	copy(out, dates)
	return out
}

// lruCache is a simple thread-safe LRU cache of decode results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []time.Time
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns a copy so callers cannot mutate the cached slice.
func (c *lruCache) get(key string) ([]time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return cloneDates(e.value), true
}

func (c *lruCache) put(key string, value []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries <= 0 {
		return
	}

	value = cloneDates(value)
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
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
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
