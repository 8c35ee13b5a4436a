package ui

import "github.com/grainui/grain/pkg/dom"

// Config describes a node to build: an emmet-lite tag path plus independent
// bindings for classes, attributes, events and children.
//
// The tag path has the grammar
//
//	path    := segment (">" segment)*
//	segment := tag? ("#" id)? ("." class)*
//
// with "div" as the default tag. Build materializes the whole chain, returns
// the outermost element and treats the innermost as the attachment point for
// every other field.
type Config struct {
	Tag      string
	Classes  []Class
	Attrs    []Attr
	Events   []Event
	Children []Child
}

// Class is a class binding: a literal added once, or a producer bound through
// an effect.
type Class struct {
	literal string
	produce func() string
}

// ClassOf adds a literal class once, permanently.
func ClassOf(name string) Class {
	return Class{literal: name}
}

// ClassFunc binds a class producer: each dependency change adds the newly
// produced class (when non-empty) and removes the previously produced one.
func ClassFunc(produce func() string) Class {
	return Class{produce: produce}
}

// Attr is an attribute binding: a literal set once, or a producer bound
// through an effect. An empty produced value removes the attribute entirely.
type Attr struct {
	key     string
	literal string
	produce func() string
}

// AttrOf sets a literal attribute once.
func AttrOf(key, value string) Attr {
	return Attr{key: key, literal: value}
}

// AttrFunc binds an attribute producer.
func AttrFunc(key string, produce func() string) Attr {
	return Attr{key: key, produce: produce}
}

// Event registers a handler for a named event. Handlers live as long as the
// node does.
type Event struct {
	name    string
	handler dom.Handler
}

// On registers handler for the named event.
func On(name string, handler dom.Handler) Event {
	return Event{name: name, handler: handler}
}

// Child is one entry of a Config's child list.
type Child struct {
	node        *dom.Node
	text        string
	isText      bool
	produceText func() string
	produceMany func() []Child
	many        []Child
}

// ChildNode appends an already built node.
func ChildNode(n *dom.Node) Child {
	return Child{node: n}
}

// ChildText appends a static text node.
func ChildText(text string) Child {
	return Child{text: text, isText: true}
}

// ChildTextFunc appends a reactive text node with its own effect.
func ChildTextFunc(produce func() string) Child {
	return Child{produceText: produce}
}

// ChildrenFunc appends the children returned by produce. The producer is
// invoked exactly once at build time; it is not reactive. Dynamic structure
// is composed from Text, Cond and ForEach instead.
func ChildrenFunc(produce func() []Child) Child {
	return Child{produceMany: produce}
}

// ChildNodes appends several already built nodes in order.
func ChildNodes(ns ...*dom.Node) Child {
	many := make([]Child, len(ns))
	for i, n := range ns {
		many[i] = Child{node: n}
	}
	return Child{many: many}
}
