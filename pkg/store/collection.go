// Package store provides a cell-backed ordered collection that persists
// itself to a kv.Store slot through its own effect registration.
//
// It is a consumer of the reactive core, not part of it: views read the
// collection through the same tracked reads they use for any cell, and the
// persistence effect is just one more subscriber.
package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/grainui/grain/pkg/kv"
	"github.com/grainui/grain/pkg/reactive"
)

// Collection is a reactive ordered collection of items identified by a
// caller-supplied ID function.
type Collection[T any] struct {
	cell *reactive.Cell[[]T]
	id   func(T) string
	slot string
	kvs  kv.Store
	log  *slog.Logger
}

// NewCollection loads the collection from the given slot and arranges for
// every subsequent change to be written back.
//
// Malformed persisted state never surfaces: an unreadable or unparsable slot
// degrades silently to an empty initial collection.
func NewCollection[T any](kvs kv.Store, slot string, id func(T) string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}

	var items []T
	if data, err := kvs.Get(context.Background(), slot); err == nil {
		if err := json.Unmarshal(data, &items); err != nil {
			logger.Warn("store: discarding malformed persisted collection",
				"slot", slot, "error", err)
			items = nil
		}
	}

	c := &Collection[T]{
		cell: reactive.NewCell(items),
		id:   id,
		slot: slot,
		kvs:  kvs,
		log:  logger,
	}

	// The persistence effect subscribes by reading the cell; every write to
	// the collection re-runs it with the full current contents.
	reactive.NewEffect(func() {
		current := c.cell.Get()
		data, err := json.Marshal(current)
		if err != nil {
			c.log.Error("store: marshal collection", "slot", c.slot, "error", err)
			return
		}
		if err := c.kvs.Put(context.Background(), c.slot, data); err != nil {
			c.log.Error("store: persist collection", "slot", c.slot, "error", err)
		}
	})

	return c
}

// Items returns the items in order, subscribing the current effect.
func (c *Collection[T]) Items() []T {
	return c.cell.Get()
}

// Peek returns the items without subscribing.
func (c *Collection[T]) Peek() []T {
	return c.cell.Peek()
}

// Len returns the current item count without subscribing.
func (c *Collection[T]) Len() int {
	return len(c.cell.Peek())
}

// Add appends an item.
func (c *Collection[T]) Add(item T) {
	c.cell.Update(func(items []T) []T {
		out := make([]T, 0, len(items)+1)
		out = append(out, items...)
		return append(out, item)
	})
}

// Remove deletes the item with the given ID. No-op when absent.
func (c *Collection[T]) Remove(id string) {
	c.cell.Update(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, it := range items {
			if c.id(it) != id {
				out = append(out, it)
			}
		}
		return out
	})
}

// Update replaces the item with the given ID by fn(item). No-op when absent.
func (c *Collection[T]) Update(id string, fn func(T) T) {
	c.cell.Update(func(items []T) []T {
		out := make([]T, len(items))
		for i, it := range items {
			if c.id(it) == id {
				out[i] = fn(it)
			} else {
				out[i] = it
			}
		}
		return out
	})
}

// Replace swaps the whole collection.
func (c *Collection[T]) Replace(items []T) {
	c.cell.Set(items)
}
