package ui

import (
	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/reactive"
)

// BoundInput builds an editable node two-way bound to a cell.
//
// The node's value is seeded from get; a listener on the configured event
// ("change" for commit-on-blur, "input" for continuous) writes edits back
// through set; an independent effect re-syncs the node on every external
// cell change. The edit the listener itself produced echoes back through
// that effect as a redundant but idempotent write.
//
// The binding applies to the attachment point of cfg's tag path; the
// returned node is the outermost element as with Build.
func BoundInput(doc *dom.Document, cfg Config, event string, get func() string, set func(cur string)) *dom.Node {
	root, attach := buildNode(doc, cfg)

	attach.On(event, func(e dom.Event) {
		set(e.Value)
	})

	reactive.NewEffect(func() {
		attach.SetValue(get())
	})

	return root
}
