// Package ui compiles declarative node configurations into live dom trees and
// keeps them synchronized through effects.
//
// Build materializes a Config once; every dynamic field (class producers,
// attribute producers, reactive text) is bound through its own effect, so a
// cell write updates exactly the parts of the tree that read it. Dynamic
// structure is composed from the three structural helpers: Text for reactive
// text content, Cond for conditional presence and ForEach for keyed lists.
//
// Config fields are small tagged variants (literal, producer, or many)
// resolved once at the call boundary, keeping the binding logic branch-free
// per variant.
package ui
