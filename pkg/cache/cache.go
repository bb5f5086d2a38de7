// Package cache provides a thread-safe LRU cache for compiled styling
// expressions.
//
// Style documents routinely repeat the same expression string across
// properties and across tilesets ("${Height} > 0" and friends). Keying
// compiled expressions by source and define fingerprint avoids re-parsing
// them every time a style is constructed.
//
// # Example
//
//	c := cache.New(256)
//	expr, err := c.GetOrCompile(cache.Fingerprint(src, defines), compile)
package cache

import (
	"container/list"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"

	"github.com/jason-crow/cesium/pkg/types"
)

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key  string
	expr *types.Expression
}

// Cache is a thread-safe LRU cache for compiled expressions. Once the
// capacity is reached, the least recently accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a new LRU cache with the given capacity.
// If capacity is <= 0, a default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Fingerprint builds the cache key for an expression source compiled with a
// define mapping. Defines participate in the key because expansion changes
// the compiled AST; the mapping is folded order-independently.
func Fingerprint(source string, defines map[string]string) string {
	if len(defines) == 0 {
		return source
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	h := fnv.New64a()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(defines[name]))
		h.Write([]byte{0})
	}
	return source + "\x00" + strconv.FormatUint(h.Sum64(), 16)
}

// Get retrieves a compiled expression from the cache, promoting it to most
// recently used. Returns (nil, false) if not present.
func (c *Cache) Get(key string) (*types.Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces an expression in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, expr *types.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, expr: expr})
	c.items[key] = el
}

// GetOrCompile retrieves the expression for key from the cache, or calls
// compile() to create it, caches the result, and returns it.
// Compilation errors are not negatively cached. compile() runs outside the
// cache lock, so concurrent misses on the same key may each compile; the
// last result stored wins.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, expr)
	return expr, nil
}

// Invalidate removes the entry for key, if present.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries the cache holds.
func (c *Cache) Capacity() int {
	return c.capacity
}

// evictLocked removes the least recently used entry. Caller holds mu.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
