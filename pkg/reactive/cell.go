package reactive

import "sync"

// cellBase provides type-erased subscriber management.
// It is embedded in Cell[T] so tracking code can hold dependency edges
// without knowing the value type.
type cellBase struct {
	id uint64

	// subs are the effects subscribed to this cell.
	// Identity-unique (deduplicated by effect ID); iteration order is the
	// order of first subscription.
	subs []*Effect

	// subMu protects subs.
	subMu sync.RWMutex
}

// subscribe adds an effect to this cell's subscribers, deduplicating by ID.
func (c *cellBase) subscribe(e *Effect) {
	if e == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	eid := e.ID()
	for _, existing := range c.subs {
		if existing.ID() == eid {
			return
		}
	}

	c.subs = append(c.subs, e)
}

// unsubscribe removes an effect from this cell's subscribers.
func (c *cellBase) unsubscribe(e *Effect) {
	if e == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	eid := e.ID()
	for i, existing := range c.subs {
		if existing.ID() == eid {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// notify re-runs every subscriber, synchronously and inline.
// The subscriber slice is copied first so effects that resubscribe (or
// unsubscribe) during their run do not corrupt the iteration. There is no
// deduplication across cells and no cycle guard: a subscriber that writes
// this cell again recurses on the same stack.
func (c *cellBase) notify() {
	c.subMu.RLock()
	subs := make([]*Effect, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	for _, sub := range subs {
		sub.run()
	}
}

// Cell is a reactive value container.
//
// Reading a Cell during an effect's execution subscribes that effect; the
// effect re-runs whenever the cell is written.
type Cell[T any] struct {
	base cellBase

	// value is the current cell value.
	value T

	// mu protects value.
	mu sync.RWMutex
}

// NewCell creates a cell holding the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		base:  cellBase{id: nextID()},
		value: initial,
	}
}

// NewCellFunc creates a cell whose initial value is computed by produce.
// The producer is invoked exactly once, untracked, at creation time.
func NewCellFunc[T any](produce func() T) *Cell[T] {
	return NewCell(produce())
}

// Get returns the current value and subscribes the currently running effect,
// if any.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track after releasing the value lock to keep lock ordering simple.
	if e := currentEffect(); e != nil {
		c.base.subscribe(e)
		e.addSource(&c.base)
	}

	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set assigns a new value and synchronously re-runs every subscribed effect
// before returning. Every write notifies; there is no equality gate, so a
// write of an unchanged value still propagates.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.base.notify()
}

// Update assigns fn(current) and notifies, like Set.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	c.mu.Unlock()

	c.base.notify()
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}
