// Package memory holds in-process caches.
package memory

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUTTL is a threadsafe LRU cache with a sliding per-entry TTL: every Get or
// Set of a key pushes its expiry out by ttl.
type LRUTTL[K comparable, V any] struct {
	mu         sync.Mutex
	ll         *list.List
	items      map[K]*list.Element
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	onEvict    func(K, V)
}

func NewLRUTTL[K comparable, V any](maxEntries int, ttl time.Duration) *LRUTTL[K, V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &LRUTTL[K, V]{
		ll:         list.New(),
		items:      make(map[K]*list.Element),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *LRUTTL[K, V]) WithClock(now func() time.Time) *LRUTTL[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// OnEvict registers a callback for entries dropped by capacity or expiry.
func (c *LRUTTL[K, V]) OnEvict(fn func(K, V)) *LRUTTL[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
	return c
}

func (c *LRUTTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := ele.Value.(*entry[K, V])
	now := c.now()
	if now.After(ent.expiresAt) {
		c.evict(ele)
		return zero, false
	}
	ent.expiresAt = now.Add(c.ttl)
	c.ll.MoveToFront(ele)
	return ent.value, true
}

func (c *LRUTTL[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if ele, ok := c.items[key]; ok {
		ent := ele.Value.(*entry[K, V])
		ent.value = value
		ent.expiresAt = expires
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expires})
	c.items[key] = ele
	for c.ll.Len() > c.maxEntries {
		c.evict(c.ll.Back())
	}
}

// Delete removes key without calling the eviction callback.
func (c *LRUTTL[K, V]) Delete(key K) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(ele)
	return true
}

// Len counts live entries, dropping expired ones on the way.
func (c *LRUTTL[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for ele := c.ll.Back(); ele != nil; {
		prev := ele.Prev()
		if now.After(ele.Value.(*entry[K, V]).expiresAt) {
			c.evict(ele)
		}
		ele = prev
	}
	return c.ll.Len()
}

func (c *LRUTTL[K, V]) evict(ele *list.Element) {
	ent := c.remove(ele)
	if ent != nil && c.onEvict != nil {
		c.onEvict(ent.key, ent.value)
	}
}

func (c *LRUTTL[K, V]) remove(ele *list.Element) *entry[K, V] {
	if ele == nil {
		return nil
	}
	c.ll.Remove(ele)
	ent := ele.Value.(*entry[K, V])
	delete(c.items, ent.key)
	return ent
}
