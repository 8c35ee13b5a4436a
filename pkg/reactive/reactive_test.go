package reactive

import "testing"

func TestNewCell(t *testing.T) {
	c := NewCell(42)
	if c.Get() != 42 {
		t.Errorf("expected 42, got %d", c.Get())
	}
}

func TestNewCellFunc(t *testing.T) {
	calls := 0
	c := NewCellFunc(func() int {
		calls++
		return 7
	})
	if c.Get() != 7 {
		t.Errorf("expected 7, got %d", c.Get())
	}
	if calls != 1 {
		t.Errorf("producer called %d times, expected 1", calls)
	}
}

func TestSetAndUpdate(t *testing.T) {
	c := NewCell(1)
	c.Set(2)
	if c.Get() != 2 {
		t.Errorf("expected 2 after Set, got %d", c.Get())
	}
	c.Update(func(v int) int { return v * 10 })
	if c.Get() != 20 {
		t.Errorf("expected 20 after Update, got %d", c.Get())
	}
}

func TestEffectRunsOnceOnCreation(t *testing.T) {
	runs := 0
	e := NewEffect(func() { runs++ })
	defer e.Dispose()

	if runs != 1 {
		t.Errorf("effect ran %d times on creation, expected 1", runs)
	}
}

func TestEffectTracksRead(t *testing.T) {
	c := NewCell("a")
	var seen []string
	e := NewEffect(func() {
		seen = append(seen, c.Get())
	})
	defer e.Dispose()

	c.Set("b")
	c.Set("c")

	want := []string{"a", "b", "c"}
	if len(seen) != len(want) {
		t.Fatalf("effect observed %v, expected %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observation %d: got %q, want %q", i, seen[i], want[i])
		}
	}
}

// Every write notifies, even a write of the value already held.
func TestSetWithoutChangeStillNotifies(t *testing.T) {
	c := NewCell(5)
	runs := 0
	e := NewEffect(func() {
		c.Get()
		runs++
	})
	defer e.Dispose()

	c.Set(5)
	c.Set(5)

	if runs != 3 {
		t.Errorf("effect ran %d times, expected 3 (creation + 2 writes)", runs)
	}
}

// N distinct writes produce N runs: notifications are not coalesced.
func TestEveryWriteRunsEffect(t *testing.T) {
	a := NewCell(0)
	b := NewCell(0)
	runs := 0
	e := NewEffect(func() {
		a.Get()
		b.Get()
		runs++
	})
	defer e.Dispose()

	a.Set(1)
	b.Set(1)
	a.Set(2)

	if runs != 4 {
		t.Errorf("effect ran %d times, expected 4 (creation + 3 writes)", runs)
	}
}

func TestPeekDoesNotSubscribe(t *testing.T) {
	c := NewCell(0)
	runs := 0
	e := NewEffect(func() {
		c.Peek()
		runs++
	})
	defer e.Dispose()

	c.Set(1)

	if runs != 1 {
		t.Errorf("effect ran %d times after Peek, expected 1", runs)
	}
}

func TestUntracked(t *testing.T) {
	tracked := NewCell(0)
	untracked := NewCell(0)
	runs := 0
	e := NewEffect(func() {
		tracked.Get()
		Untracked(func() {
			untracked.Get()
		})
		runs++
	})
	defer e.Dispose()

	untracked.Set(1)
	if runs != 1 {
		t.Errorf("untracked read still subscribed: %d runs", runs)
	}

	tracked.Set(1)
	if runs != 2 {
		t.Errorf("tracked read lost: %d runs", runs)
	}
}

// An effect's subscriptions follow its latest run: a branch not taken this
// run does not leave a stale subscription behind.
func TestEffectRetracksDependencies(t *testing.T) {
	useA := NewCell(true)
	a := NewCell("a")
	b := NewCell("b")
	runs := 0
	e := NewEffect(func() {
		if useA.Get() {
			a.Get()
		} else {
			b.Get()
		}
		runs++
	})
	defer e.Dispose()

	useA.Set(false) // run 2: now subscribed to useA and b only

	a.Set("a2")
	if runs != 2 {
		t.Errorf("stale subscription to a: %d runs", runs)
	}

	b.Set("b2")
	if runs != 3 {
		t.Errorf("missing subscription to b: %d runs", runs)
	}
}

// Cell reads in nested calls still subscribe the outer effect; no tracking
// state leaks once the effect finishes.
func TestTrackingThroughCallTreeAndNoLeak(t *testing.T) {
	c := NewCell(0)
	read := func() int { return c.Get() }
	runs := 0
	e := NewEffect(func() {
		read()
		runs++
	})
	defer e.Dispose()

	c.Set(1)
	if runs != 2 {
		t.Errorf("nested read not tracked: %d runs", runs)
	}

	// Outside any effect, reads must not subscribe anything.
	before := runs
	_ = c.Get()
	c.Set(2)
	if runs != before+1 {
		t.Errorf("read outside an effect leaked a subscription")
	}
}

func TestEffectDispose(t *testing.T) {
	c := NewCell(0)
	runs := 0
	e := NewEffect(func() {
		c.Get()
		runs++
	})

	e.Dispose()
	e.Dispose() // idempotent

	c.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect ran again: %d runs", runs)
	}
}

func TestScopeDisposesEffects(t *testing.T) {
	c := NewCell(0)
	runs := 0

	s := NewScope(nil)
	s.Run(func() {
		NewEffect(func() {
			c.Get()
			runs++
		})
	})

	c.Set(1)
	if runs != 2 {
		t.Fatalf("effect not live inside scope: %d runs", runs)
	}

	s.Dispose()
	c.Set(2)
	if runs != 2 {
		t.Errorf("effect survived scope disposal: %d runs", runs)
	}
}

func TestScopeDisposesChildren(t *testing.T) {
	c := NewCell(0)
	runs := 0

	parent := NewScope(nil)
	var child *Scope
	parent.Run(func() {
		child = NewScope(CurrentScope())
		child.Run(func() {
			NewEffect(func() {
				c.Get()
				runs++
			})
		})
	})

	parent.Dispose()
	c.Set(1)
	if runs != 1 {
		t.Errorf("child scope effect survived parent disposal: %d runs", runs)
	}
}

func TestScopeOnCleanup(t *testing.T) {
	var order []string
	s := NewScope(nil)
	s.OnCleanup(func() { order = append(order, "first") })
	s.OnCleanup(func() { order = append(order, "second") })

	s.Dispose()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("cleanups ran as %v, expected [first second]", order)
	}

	// Registering on a disposed scope runs immediately.
	ran := false
	s.OnCleanup(func() { ran = true })
	if !ran {
		t.Errorf("cleanup on disposed scope did not run immediately")
	}
}

func TestCurrentScope(t *testing.T) {
	if CurrentScope() != nil {
		t.Fatalf("expected no ambient scope")
	}

	s := NewScope(nil)
	defer s.Dispose()

	s.Run(func() {
		if CurrentScope() != s {
			t.Errorf("CurrentScope did not report the running scope")
		}
	})

	if CurrentScope() != nil {
		t.Errorf("scope leaked after Run")
	}
}

func TestCellIDsUnique(t *testing.T) {
	a := NewCell(0)
	b := NewCell(0)
	if a.ID() == b.ID() {
		t.Errorf("two cells share ID %d", a.ID())
	}
}

func TestReleaseTrackingDropsGoroutineSlot(t *testing.T) {
	done := make(chan struct{})
	var gid uint64

	go func() {
		defer close(done)
		gid = goroutineID()

		c := NewCell(1)
		e := NewEffect(func() { c.Get() })
		e.Dispose()

		if _, ok := trackingContexts.Load(gid); !ok {
			t.Errorf("no tracking slot after reactive use")
		}

		ReleaseTracking()
	}()
	<-done

	if _, ok := trackingContexts.Load(gid); ok {
		t.Errorf("tracking slot survived ReleaseTracking")
	}
}
