package ui

import (
	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/reactive"
)

// Strategy selects how Cond hides a node.
type Strategy uint8

const (
	// StrategyDisplay builds the node once and toggles style="display:none".
	// The node remains in the tree at all times.
	StrategyDisplay Strategy = iota

	// StrategyRemove builds lazily: the component and a comment placeholder
	// are substituted for each other in-place on every flip, so exactly one
	// of the pair is mounted at any time.
	StrategyRemove
)

// Cond builds a conditionally presented node.
//
// With StrategyRemove the returned node (component or placeholder, per the
// initial condition value) must be attached to the tree before the first
// subsequent flip; a substitution whose parent cannot be resolved panics,
// since the tree position would be lost silently otherwise.
func Cond(doc *dom.Document, cfg Config, cond func() bool, strategy Strategy) *dom.Node {
	if strategy == StrategyDisplay {
		return condDisplay(doc, cfg, cond)
	}
	return condRemove(doc, cfg, cond)
}

func condDisplay(doc *dom.Document, cfg Config, cond func() bool) *dom.Node {
	n := Build(doc, cfg)
	reactive.NewEffect(func() {
		if cond() {
			n.RemoveStyle("display")
		} else {
			n.SetStyle("display", "none")
		}
	})
	return n
}

func condRemove(doc *dom.Document, cfg Config, cond func() bool) *dom.Node {
	owner := reactive.CurrentScope()

	// current is whichever of the pair is live; buildScope owns the built
	// component's effects so they die with it.
	var current *dom.Node
	var buildScope *reactive.Scope

	build := func() *dom.Node {
		buildScope = reactive.NewScope(owner)
		var n *dom.Node
		buildScope.Run(func() {
			n = Build(doc, cfg)
		})
		return n
	}

	reactive.NewEffect(func() {
		v := cond()

		// First run: materialize per the initial value, leave the parent
		// undiscovered until the caller attaches the node.
		if current == nil {
			if v {
				current = build()
			} else {
				current = doc.CreateComment("cond")
			}
			return
		}

		mounted := current.Kind() != dom.KindComment
		if v == mounted {
			return
		}

		parent := current.Parent()
		if parent == nil {
			panic("ui: conditional node was never attached, cannot substitute")
		}

		if v {
			next := build()
			parent.ReplaceChild(next, current)
			current = next
		} else {
			placeholder := doc.CreateComment("cond")
			parent.ReplaceChild(placeholder, current)
			if buildScope != nil {
				buildScope.Dispose()
				buildScope = nil
			}
			current = placeholder
		}
	})

	return current
}
