// Package cache provides a small in-memory LRU with TTL, used to keep
// filtered overviews cheap to re-render between writes.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[T any] struct {
	key      string
	value    T
	deadline time.Time
}

type LRUCache[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration

	// order holds entries most-recently-used first; byKey indexes into it.
	order *list.List
	byKey map[string]*list.Element
}

func NewLRUCache[T any](capacity int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		byKey:    make(map[string]*list.Element),
	}
}

// Get returns the cached value for key. Entries past their deadline are
// dropped on access and reported as a miss.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.byKey[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.deadline) {
		c.drop(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.ttl)

	if elem, ok := c.byKey[key]; ok {
		e := elem.Value.(*entry[T])
		e.value = value
		e.deadline = deadline
		c.order.MoveToFront(elem)
		return
	}

	c.byKey[key] = c.order.PushFront(&entry[T]{key: key, value: value, deadline: deadline})

	for c.order.Len() > c.capacity {
		c.drop(c.order.Back())
	}
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.byKey[key]; ok {
		c.drop(elem)
	}
}

// Purge drops every entry. Called after a write invalidates all cached
// overviews at once.
func (c *LRUCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.byKey = make(map[string]*list.Element)
}

// CleanExpired removes all entries past their deadline and returns how
// many were dropped.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	dropped := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*entry[T]).deadline) {
			c.drop(elem)
			dropped++
		}
		elem = next
	}
	return dropped
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// drop removes elem from both the order list and the key index. Callers
// hold the lock.
func (c *LRUCache[T]) drop(elem *list.Element) {
	delete(c.byKey, elem.Value.(*entry[T]).key)
	c.order.Remove(elem)
}
