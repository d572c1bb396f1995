package infix

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the capacity of a Compiler's cache when none is given.
const DefaultCacheSize = 256

// entry is a cache entry stored in the doubly-linked list.
type entry[V any] struct {
	src  string
	expr *Expr[V]
}

// cache is an LRU cache of compiled expressions keyed by source text. Once
// the capacity is reached, the least recently used entry is evicted. It is
// safe for concurrent use.
type cache[V any] struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element
}

func newCache[V any](capacity int) *cache[V] {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &cache[V]{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

// get retrieves an expression and marks it most recently used.
func (c *cache[V]) get(src string) (*Expr[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[src]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry[V]).expr, true
}

// set inserts or replaces an expression, evicting the least recently used
// entry if the cache is full.
func (c *cache[V]) set(src string, e *Expr[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[src]; ok {
		el.Value.(*entry[V]).expr = e
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.cap {
		if el := c.ll.Back(); el != nil {
			c.ll.Remove(el)
			delete(c.items, el.Value.(*entry[V]).src)
		}
	}
	c.items[src] = c.ll.PushFront(&entry[V]{src: src, expr: e})
}

// getOrCompile returns the cached expression for src, or calls compile and
// caches its result. Errors are not cached.
func (c *cache[V]) getOrCompile(src string, compile func() (*Expr[V], error)) (*Expr[V], error) {
	if e, ok := c.get(src); ok {
		return e, nil
	}
	e, err := compile()
	if err != nil {
		return nil, err
	}
	c.set(src, e)
	return e, nil
}

func (c *cache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *cache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.cap)
}
