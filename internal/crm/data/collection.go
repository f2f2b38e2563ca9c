package data

import "sync"

// Collection is an in-memory cache of one backend collection. It remembers
// whether it has ever been filled so callers can tell "empty" from "not yet
// fetched".
type Collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
	id     func(T) int64
}

// NewCollection builds a cache whose items are identified by id. The id
// function drives Update and Remove.
func NewCollection[T any](id func(T) int64) *Collection[T] {
	return &Collection[T]{id: id}
}

// Replace swaps in a full result set and marks the collection loaded.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	c.loaded = true
}

// Add appends one item.
func (c *Collection[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Update replaces the item with a matching ID. Unknown IDs are ignored.
func (c *Collection[T]) Update(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	want := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == want {
			c.items[i] = item
			return
		}
	}
}

// Remove drops the item with the given ID. Unknown IDs are ignored.
func (c *Collection[T]) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the cached items.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Loaded reports whether the collection has ever been filled.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Clear empties the collection and resets the loaded flag.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loaded = false
}
