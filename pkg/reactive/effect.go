package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a re-runnable computation and the unit of reactive propagation.
//
// An effect runs once when created. Every cell read anywhere in that call
// tree subscribes the effect; a later write to any of those cells re-runs it
// inline. Each run first drops the dependency edges recorded by the previous
// run, so the subscription set always matches the latest execution.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func()

	// sources are the cells this effect is currently subscribed to.
	sources   []*cellBase
	sourcesMu sync.Mutex

	// scope is the Scope that owns this effect, if any.
	scope *Scope

	// disposed marks the effect as permanently stopped.
	disposed atomic.Bool
}

// NewEffect creates an effect, registers it with the current scope (if one is
// active) and runs it once synchronously before returning.
//
// The returned handle is the only way to stop the effect explicitly; effects
// owned by a Scope are disposed with it.
func NewEffect(fn func()) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: currentScope(),
	}

	if e.scope != nil {
		e.scope.register(e)
	}

	e.run()

	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect body with dependency recording active.
// Called on creation and inline from every cell notification.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	// Drop edges from the previous run.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentEffect(e)
	e.fn()
	setCurrentEffect(old)
}

// addSource records a dependency edge. Called by cells read during the run.
func (e *Effect) addSource(source *cellBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose stops the effect and unregisters it from every cell it is
// subscribed to. Idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}
