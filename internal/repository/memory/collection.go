// Package memory keeps every collection in process memory. It is the default
// store and the one used by tests.
package memory

import (
	"sync"

	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

// collection is an insertion-ordered map guarded by a RWMutex. Values are
// cloned on the way in and out so callers never share slices or maps with it.
type collection[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
	clone func(T) T
}

func newCollection[T any](clone func(T) T) *collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &collection[T]{items: make(map[string]T), clone: clone}
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return c.clone(v), nil
}

// find returns the first value, in insertion order, that matches.
func (c *collection[T]) find(match func(T) bool) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if v := c.items[id]; match(v) {
			return c.clone(v), nil
		}
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (c *collection[T]) list(match func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.items[id]
		if match == nil || match(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

// insert adds v under id. It fails with ErrDuplicate when id is taken or
// conflicts reports a clash with an existing value.
func (c *collection[T]) insert(id string, v T, conflicts func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; ok {
		return repository.ErrDuplicate
	}
	if conflicts != nil {
		for _, existing := range c.items {
			if conflicts(existing) {
				return repository.ErrDuplicate
			}
		}
	}
	c.items[id] = c.clone(v)
	c.order = append(c.order, id)
	return nil
}

// replace overwrites the value stored under id. Last write wins.
func (c *collection[T]) replace(id string, v T, conflicts func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return repository.ErrNotFound
	}
	if conflicts != nil {
		for otherID, existing := range c.items {
			if otherID != id && conflicts(existing) {
				return repository.ErrDuplicate
			}
		}
	}
	c.items[id] = c.clone(v)
	return nil
}

func (c *collection[T]) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.items, id)
	for i, have := range c.order {
		if have == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
