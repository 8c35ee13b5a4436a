package reactive

import "sync"

// Scope collects the effects created while it is active so they can be
// disposed together. Scopes form a tree: disposing a scope disposes its
// children, its effects and runs its cleanup functions.
//
// The list reconciler gives every rendered item its own scope, and a server
// session owns a root scope, so unmounting never leaks subscriptions.
type Scope struct {
	id uint64

	parent   *Scope
	children []*Scope
	effects  []*Effect
	cleanups []func()

	disposed bool
	mu       sync.Mutex
}

// NewScope creates a scope. A nil parent makes a root scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(s)
	}
	return s
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Run executes fn with this scope installed as the owner of newly created
// effects and child scopes.
func (s *Scope) Run(fn func()) {
	old := setCurrentScope(s)
	defer setCurrentScope(old)
	fn()
}

// OnCleanup registers fn to run when the scope is disposed.
func (s *Scope) OnCleanup(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// register takes ownership of an effect.
func (s *Scope) register(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		e.Dispose()
		return
	}
	s.effects = append(s.effects, e)
}

func (s *Scope) addChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, child)
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Dispose tears the scope down: children first, then effects, then cleanup
// functions in registration order. Idempotent.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	children := s.children
	effects := s.effects
	cleanups := s.cleanups
	s.children = nil
	s.effects = nil
	s.cleanups = nil
	s.mu.Unlock()

	for _, child := range children {
		child.Dispose()
	}
	for _, e := range effects {
		e.Dispose()
	}
	for _, fn := range cleanups {
		fn()
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}
}
