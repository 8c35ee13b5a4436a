package dom

import "fmt"

// Document owns a presentation tree: it allocates node IDs, records every
// mutation as a Patch and routes client events to node handlers.
//
// A document must only be mutated from one logical thread of control; the
// server runs each session's events and effects on the session goroutine.
type Document struct {
	root   *Node
	nextID uint64

	// nodes indexes reachable nodes for event routing by ID. Subtrees are
	// evicted when detached and re-indexed when reattached.
	nodes map[uint64]*Node

	sink Sink
}

// NewDocument creates a document with an empty <body> root.
func NewDocument() *Document {
	d := &Document{
		nodes: make(map[uint64]*Node),
	}
	d.root = d.CreateElement("body")
	return d
}

// Root returns the document root element.
func (d *Document) Root() *Node { return d.root }

// SetSink installs the patch sink. Mutations made before a sink is installed
// are not replayed; transports send the initial tree with HTML instead.
func (d *Document) SetSink(s Sink) { d.sink = s }

// NodeByID returns the node with the given ID, or nil.
func (d *Document) NodeByID(id uint64) *Node { return d.nodes[id] }

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *Node {
	return d.newNode(&Node{kind: KindElement, tag: tag})
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	return d.newNode(&Node{kind: KindText, text: text})
}

// CreateComment creates a detached comment node, used as a placeholder
// marker by the conditional presenter and the list reconciler.
func (d *Document) CreateComment(label string) *Node {
	return d.newNode(&Node{kind: KindComment, text: label})
}

// CreateFragment creates a detached grouping node without a wrapper element.
func (d *Document) CreateFragment() *Node {
	return d.newNode(&Node{kind: KindFragment})
}

func (d *Document) newNode(n *Node) *Node {
	d.nextID++
	n.id = d.nextID
	n.doc = d
	d.nodes[n.id] = n
	return n
}

// index registers a subtree for event routing, on attachment.
func (d *Document) index(n *Node) {
	d.nodes[n.id] = n
	for _, c := range n.children {
		d.index(c)
	}
}

// forget evicts a subtree from the routing index. A detached node cannot
// receive events until it is reattached.
func (d *Document) forget(n *Node) {
	delete(d.nodes, n.id)
	for _, c := range n.children {
		d.forget(c)
	}
}

// DispatchEvent delivers an event to the handlers registered on the target
// node for the event's type. It returns an error when the node is unknown,
// which a transport reports without tearing the session down.
func (d *Document) DispatchEvent(nodeID uint64, ev Event) error {
	n := d.nodes[nodeID]
	if n == nil {
		return fmt.Errorf("dom: dispatch to unknown node %d", nodeID)
	}

	// Events carrying an edited value mirror it into the tree before the
	// handlers run, the way a real control updates itself first.
	switch ev.Type {
	case "input", "change":
		n.value = ev.Value
		n.checked = ev.Checked
	}

	ev.Target = n
	for _, h := range n.handlers[ev.Type] {
		h(ev)
	}
	return nil
}

// record forwards a patch to the sink, if one is installed.
func (d *Document) record(p Patch) {
	if d.sink != nil {
		d.sink.Apply(p)
	}
}
