// Package cache memoizes parsed expression trees keyed by normalized math
// source.
package cache

import (
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/g5becks/mathspan/internal/mathexpr"
)

// DefaultCapacity bounds the cache built by render.New when none is given.
const DefaultCapacity = 4096

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Len       int    `json:"len"`
	Capacity  int    `json:"capacity"`
}

// Cache maps normalized source to its parsed tree. It is safe for
// concurrent use. Two goroutines missing on the same key may both parse;
// the later store wins and both results are structurally equal.
type Cache struct {
	mu       sync.Mutex
	capacity int
	lru      *simplelru.LRU
	entries  map[string]mathexpr.Node

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most capacity trees, evicting the least
// recently used. A capacity of zero or less means unbounded.
func New(capacity int) *Cache {
	c := &Cache{capacity: max(capacity, 0)}
	if c.capacity == 0 {
		c.entries = make(map[string]mathexpr.Node)
		return c
	}

	lru, err := simplelru.NewLRU(c.capacity, func(_, _ any) {
		c.evictions++
	})
	if err != nil {
		// NewLRU only rejects non-positive sizes.
		panic(err)
	}
	c.lru = lru
	return c
}

// Resolve returns the tree for raw, parsing it on a miss. Input that
// normalizes to nothing yields the empty expression without touching the
// cache.
func (c *Cache) Resolve(raw string) mathexpr.Node {
	key := Normalize(raw)
	if key == "" {
		return mathexpr.Empty()
	}

	if n, ok := c.get(key); ok {
		return n
	}

	n := mathexpr.Parse(key)
	c.put(key, n)
	return n
}

func (c *Cache) get(key string) (mathexpr.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		v  any
		ok bool
	)
	if c.lru != nil {
		v, ok = c.lru.Get(key)
	} else {
		v, ok = c.entries[key]
	}

	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return v.(mathexpr.Node), true
}

func (c *Cache) put(key string, n mathexpr.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru != nil {
		c.lru.Add(key, n)
		return
	}
	c.entries[key] = n
}

// Len reports the number of cached trees.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.len()
}

func (c *Cache) len() int {
	if c.lru != nil {
		return c.lru.Len()
	}
	return len(c.entries)
}

// Capacity returns the configured bound; zero means unbounded.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the counters and current size.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.len(),
		Capacity:  c.capacity,
	}
}

// Purge drops every cached tree. Counters are kept.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru != nil {
		evictions := c.evictions
		c.lru.Purge()
		c.evictions = evictions
		return
	}
	clear(c.entries)
}

//nolint:gochecknoglobals // Read-only replacer.
var lineBreaks = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"\u2028", " ",
	"\u2029", " ",
)

// Normalize folds every line break into a single space and trims
// surrounding whitespace.
func Normalize(raw string) string {
	return strings.TrimSpace(lineBreaks.Replace(raw))
}
