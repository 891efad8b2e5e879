// Package cache provides a bounded in-memory LRU shared by the glyph and
// icon layers.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a generic least-recently-used cache bounded by entry count.
// Entries also carry a byte cost so callers can report memory use.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List
	cost     func(K, V) int64
	capacity int
	size     int64
	hits     uint64
	misses   uint64
}

type entry[K comparable, V any] struct {
	key  K
	val  V
	cost int64
}

// New creates an LRU holding at most capacity entries. A capacity below 1
// yields a disabled cache: Put is a no-op and Get always misses.
// cost estimates an entry's size in bytes; nil counts each entry as 1.
func New[K comparable, V any](capacity int, cost func(K, V) int64) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, max(capacity, 0)),
		order:    list.New(),
		cost:     cost,
	}
}

// Get returns the cached value and marks it most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if el, ok := l.items[key]; ok {
		l.order.MoveToFront(el)
		l.hits++
		return el.Value.(*entry[K, V]).val, true
	}
	l.misses++
	var zero V
	return zero, false
}

// Put inserts or replaces a value, evicting the least recently used
// entries when the cache is full.
func (l *LRU[K, V]) Put(key K, val V) {
	if l.capacity < 1 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := int64(1)
	if l.cost != nil {
		c = l.cost(key, val)
	}

	if el, ok := l.items[key]; ok {
		e := el.Value.(*entry[K, V])
		l.size += c - e.cost
		e.val, e.cost = val, c
		l.order.MoveToFront(el)
		return
	}

	for l.order.Len() >= l.capacity {
		l.remove(l.order.Back())
	}
	l.items[key] = l.order.PushFront(&entry[K, V]{key: key, val: val, cost: c})
	l.size += c
}

// Delete removes key and reports whether it was present.
func (l *LRU[K, V]) Delete(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	el, ok := l.items[key]
	if ok {
		l.remove(el)
	}
	return ok
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// Size returns the summed cost of all cached entries.
func (l *LRU[K, V]) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Stats returns the hit and miss counters.
func (l *LRU[K, V]) Stats() (hits, misses uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}

// Clear drops every entry. Counters are kept.
func (l *LRU[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[K]*list.Element, max(l.capacity, 0))
	l.order.Init()
	l.size = 0
}

func (l *LRU[K, V]) remove(el *list.Element) {
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	l.order.Remove(el)
	delete(l.items, e.key)
	l.size -= e.cost
}
