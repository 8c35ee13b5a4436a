// Package reactive implements the dependency-tracking state primitive at the
// heart of Grain: the Cell.
//
// A Cell holds a value and the set of effects that read it. Reading a cell
// inside a running effect subscribes that effect automatically; no explicit
// subscription bookkeeping is required by callers. Writing a cell re-runs
// every subscribed effect synchronously, before the write returns.
//
// Effects re-record their dependencies on every run, so the subscription set
// always reflects the reads performed by the latest execution. Disposing an
// effect (directly or through its Scope) unregisters it from every cell it
// touched.
//
// The engine is single-threaded by construction within one document: there is
// no scheduler and no queue. The "currently running effect" slot is kept per
// goroutine, so independent documents may live on independent goroutines, but
// a single document must only ever be mutated from one logical thread of
// control.
//
// Hazard: a write performed from inside a subscriber of the same cell recurses
// on the same call stack with no reentrancy guard. Avoiding that cycle is the
// caller's responsibility.
package reactive
