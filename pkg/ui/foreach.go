package ui

import (
	"encoding/json"
	"fmt"

	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/reactive"
)

// itemRecord tracks one mounted list item across reconciliation passes.
type itemRecord[T any] struct {
	// node is the rendered, possibly mounted node.
	node *dom.Node

	// fingerprint is the structural serialization of the item, used to
	// detect in-place mutation without an identity change.
	fingerprint string

	// cell pushes updates into the still-mounted node through the item's
	// own render effects, without rebuilding it.
	cell *reactive.Cell[T]

	// index is the item's last-known position.
	index int

	// scope owns the effects created by the item's render closure.
	scope *reactive.Scope
}

// ForEach returns an ordered sequence of nodes reflecting the collection
// produced by items, and keeps it synchronized through an internal effect.
//
// key must return a stable surrogate key per item: it is the sole identity —
// two structurally equal items with distinct keys are tracked independently,
// and an item mutated in place under the same key is detected purely by
// fingerprint mismatch and updated through its private cell, never rebuilt.
//
// render receives a reader for the item's private cell and the item's index
// at render time. It runs once per identity, inside a scope that is disposed
// when the identity leaves the collection.
//
// The parent is resolved lazily: when the first pass produces no items, the
// returned sequence is a single placeholder marker whose eventual attachment
// point becomes the parent. The reconciler assumes the parent's children are
// exactly the list items (plus the marker while the list is empty).
func ForEach[T any](doc *dom.Document, items func() []T, key func(T) string, render func(item func() T, index int) *dom.Node) []*dom.Node {
	owner := reactive.CurrentScope()
	records := make(map[string]*itemRecord[T])
	marker := doc.CreateComment("list")

	var initial []*dom.Node
	first := true

	reactive.NewEffect(func() {
		list := items()

		live := make(map[string]bool, len(list))
		for _, it := range list {
			live[key(it)] = true
		}

		// Resolve the shared parent off any mounted item, falling back to
		// the marker's position.
		var parent *dom.Node
		for _, rec := range records {
			if p := rec.node.Parent(); p != nil {
				parent = p
				break
			}
		}
		if parent == nil {
			parent = marker.Parent()
		}

		// Removal: identities absent from the new collection unmount, and
		// their scopes release every effect the render closure created.
		for k, rec := range records {
			if !live[k] {
				if p := rec.node.Parent(); p != nil {
					p.RemoveChild(rec.node)
				}
				rec.scope.Dispose()
				delete(records, k)
			}
		}

		// Upsert in collection order.
		for i, it := range list {
			k := key(it)
			rec, ok := records[k]
			if !ok {
				cell := reactive.NewCell(it)
				scope := reactive.NewScope(owner)
				var node *dom.Node
				idx := i
				scope.Run(func() {
					node = render(cell.Get, idx)
				})
				rec = &itemRecord[T]{
					node:        node,
					fingerprint: fingerprint(it),
					cell:        cell,
					index:       i,
					scope:       scope,
				}
				records[k] = rec

				if parent != nil {
					if marker.Parent() == parent {
						parent.InsertBefore(node, marker)
					} else {
						parent.AppendChild(node)
					}
				}
				continue
			}

			if fp := fingerprint(it); fp != rec.fingerprint {
				rec.cell.Set(it)
				rec.fingerprint = fp
			}
			rec.index = i
		}

		if parent != nil {
			// The marker only stands in while the list is empty.
			if len(list) > 0 {
				if marker.Parent() == parent {
					parent.RemoveChild(marker)
				}
			} else if marker.Parent() == nil {
				parent.AppendChild(marker)
			}

			// Reposition: move each out-of-place node immediately before
			// the node currently occupying its target index. InsertBefore
			// is a no-op when the node already holds the slot.
			for i, it := range list {
				rec := records[key(it)]
				if rec.node.Index() != i {
					var ref *dom.Node
					if i < len(parent.Children()) {
						ref = parent.Children()[i]
					}
					parent.InsertBefore(rec.node, ref)
				}
				rec.index = i
			}
		}

		if first {
			first = false
			if len(list) == 0 {
				initial = []*dom.Node{marker}
				return
			}
			initial = make([]*dom.Node, 0, len(list))
			for _, it := range list {
				initial = append(initial, records[key(it)].node)
			}
		}
	})

	return initial
}

// fingerprint structurally serializes an item. JSON keeps it stable across
// passes; values JSON cannot express fall back to the Go-syntax form.
func fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
