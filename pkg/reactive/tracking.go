package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine.
// Keeping the slot per goroutine (rather than in a process-wide variable)
// lets independent documents run on independent goroutines without their
// dependency recording interfering.
type trackingContext struct {
	// currentEffect is the effect currently recording its reads.
	// nil means reads do not create subscriptions.
	currentEffect *Effect

	// currentScope receives ownership of effects created while it is active.
	currentScope *Scope
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
// The stack header has the form "goroutine <id> [...".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// ReleaseTracking drops the current goroutine's tracking slot. Long-lived
// hosts call it (usually deferred) when a goroutine that ran reactive code
// exits, so the slot does not outlive the goroutine.
func ReleaseTracking() {
	trackingContexts.Delete(goroutineID())
}

// currentEffect returns the effect currently recording dependencies,
// or nil when no tracking is active.
func currentEffect() *Effect {
	return getTrackingContext().currentEffect
}

// setCurrentEffect installs e as the recording effect and returns the
// previous occupant so it can be restored.
func setCurrentEffect(e *Effect) *Effect {
	ctx := getTrackingContext()
	old := ctx.currentEffect
	ctx.currentEffect = e
	return old
}

// currentScope returns the scope that owns newly created effects,
// or nil when no scope is active.
func currentScope() *Scope {
	return getTrackingContext().currentScope
}

// setCurrentScope installs s as the owning scope and returns the previous one.
func setCurrentScope(s *Scope) *Scope {
	ctx := getTrackingContext()
	old := ctx.currentScope
	ctx.currentScope = s
	return old
}

// CurrentScope returns the scope currently receiving new effects, or nil.
// Component helpers capture it so nodes built later (inside an effect re-run)
// still hang their per-build scopes off the scope that created the component.
func CurrentScope() *Scope {
	return currentScope()
}

// Untracked runs fn with dependency recording suspended. Cell reads inside fn
// do not subscribe the surrounding effect.
//
// For a single read, Cell.Peek is the clearer choice.
func Untracked(fn func()) {
	old := setCurrentEffect(nil)
	defer setCurrentEffect(old)
	fn()
}
