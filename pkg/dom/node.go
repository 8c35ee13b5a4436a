package dom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindComment              // Placeholder marker
	KindFragment             // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Event is a client interaction delivered to a node's handlers.
type Event struct {
	Type    string // "click", "input", "change", ...
	Target  *Node
	Value   string // input value, when the event carries one
	Checked bool   // checkbox state, when the event carries one
	Key     string // key name for keyboard events
}

// Handler reacts to an Event.
type Handler func(Event)

// Node is a node in the presentation tree.
type Node struct {
	kind Kind
	id   uint64
	tag  string

	doc      *Document
	parent   *Node
	children []*Node

	attrs   map[string]string
	classes []string // ordered set
	styles  map[string]string

	text    string // KindText and KindComment
	value   string // form controls
	checked bool

	handlers map[string][]Handler
}

// Kind returns the node type.
func (n *Node) Kind() Kind { return n.kind }

// ID returns the document-unique node identifier.
func (n *Node) ID() uint64 { return n.id }

// Tag returns the element tag name ("" for non-elements).
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent node, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in order. The returned slice is shared;
// callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Text returns the content of a text or comment node.
func (n *Node) Text() string { return n.text }

// Value returns the form control value.
func (n *Node) Value() string { return n.value }

// Checked returns the checkbox state.
func (n *Node) Checked() bool { return n.checked }

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// HasClass reports whether the class is present.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Classes returns the class list in insertion order.
func (n *Node) Classes() []string { return n.classes }

// Attrs returns a copy of the attribute map, or nil when empty.
func (n *Node) Attrs() map[string]string {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Styles returns a copy of the inline style map, or nil when empty.
func (n *Node) Styles() map[string]string {
	if len(n.styles) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.styles))
	for k, v := range n.styles {
		out[k] = v
	}
	return out
}

// Style returns the inline style property value and whether it is set.
func (n *Node) Style(prop string) (string, bool) {
	v, ok := n.styles[prop]
	return v, ok
}

// Index returns the node's position among its parent's children,
// or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// SetText updates the content of a text or comment node.
func (n *Node) SetText(text string) {
	if n.text == text {
		return
	}
	n.text = text
	n.doc.record(Patch{Op: PatchSetText, NodeID: n.id, Value: text})
}

// SetAttr sets an attribute to its string form.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	n.doc.record(Patch{Op: PatchSetAttr, NodeID: n.id, Key: key, Value: value})
}

// RemoveAttr removes an attribute entirely. No-op when absent.
func (n *Node) RemoveAttr(key string) {
	if _, ok := n.attrs[key]; !ok {
		return
	}
	delete(n.attrs, key)
	n.doc.record(Patch{Op: PatchRemoveAttr, NodeID: n.id, Key: key})
}

// AddClass adds a class to the class set. No-op when already present or empty.
func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.classes = append(n.classes, class)
	n.doc.record(Patch{Op: PatchAddClass, NodeID: n.id, Key: class})
}

// RemoveClass removes a class from the class set. No-op when absent.
func (n *Node) RemoveClass(class string) {
	for i, c := range n.classes {
		if c == class {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			n.doc.record(Patch{Op: PatchRemoveClass, NodeID: n.id, Key: class})
			return
		}
	}
}

// SetStyle sets an inline style property.
func (n *Node) SetStyle(prop, value string) {
	if n.styles == nil {
		n.styles = make(map[string]string)
	}
	n.styles[prop] = value
	n.doc.record(Patch{Op: PatchSetStyle, NodeID: n.id, Key: prop, Value: value})
}

// RemoveStyle removes an inline style property. No-op when absent.
func (n *Node) RemoveStyle(prop string) {
	if _, ok := n.styles[prop]; !ok {
		return
	}
	delete(n.styles, prop)
	n.doc.record(Patch{Op: PatchRemoveStyle, NodeID: n.id, Key: prop})
}

// SetValue sets the form control value.
func (n *Node) SetValue(value string) {
	n.value = value
	n.doc.record(Patch{Op: PatchSetValue, NodeID: n.id, Value: value})
}

// SetChecked sets the checkbox state.
func (n *Node) SetChecked(checked bool) {
	n.checked = checked
	v := "false"
	if checked {
		v = "true"
	}
	n.doc.record(Patch{Op: PatchSetChecked, NodeID: n.id, Value: v})
}

// On registers an event handler. Handlers are never removed automatically;
// their lifetime is the node's lifetime.
func (n *Node) On(event string, h Handler) {
	if n.handlers == nil {
		n.handlers = make(map[string][]Handler)
	}
	n.handlers[event] = append(n.handlers[event], h)
}

// AppendChild appends child as the last child of n.
// A child that is attached elsewhere is detached first.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
// When child is already a child of n this is a move and is recorded as one;
// moving a node onto its current slot is a no-op.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil || child == ref {
		return
	}

	sameParent := child.parent == n

	// Target slot before any mutation.
	idx := len(n.children)
	if ref != nil && ref.parent == n {
		idx = ref.Index()
	}

	if sameParent {
		cur := child.Index()
		// Inserting before itself or before its next sibling leaves the
		// node in place.
		if cur == idx || cur+1 == idx {
			return
		}
	}

	wasAttached := child.parent != nil
	child.detach(wasAttached && !sameParent)

	// Recompute the slot after detaching, the index may have shifted.
	idx = len(n.children)
	if ref != nil && ref.parent == n {
		idx = ref.Index()
	}

	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	if !sameParent {
		n.doc.index(child)
	}

	if sameParent {
		n.doc.record(Patch{Op: PatchMoveNode, NodeID: child.id, ParentID: n.id, Index: idx})
	} else {
		n.doc.record(Patch{Op: PatchInsertNode, NodeID: child.id, ParentID: n.id, Index: idx, Node: child})
	}
}

// RemoveChild detaches child from n. No-op when child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	child.detach(true)
}

// ReplaceChild substitutes newChild for oldChild at the same tree position.
func (n *Node) ReplaceChild(newChild, oldChild *Node) {
	if oldChild == nil || oldChild.parent != n || newChild == nil || newChild == oldChild {
		return
	}

	if newChild.parent != nil {
		newChild.detach(true)
	}

	idx := oldChild.Index()
	oldChild.parent = nil
	n.children[idx] = newChild
	newChild.parent = n

	n.doc.forget(oldChild)
	n.doc.index(newChild)
	n.doc.record(Patch{Op: PatchReplaceNode, NodeID: oldChild.id, Node: newChild})
}

// detach removes the node from its parent's child list.
// A RemoveNode patch is recorded only when record is true: moves within a
// parent are reported as a single MoveNode instead.
func (n *Node) detach(record bool) {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	if record {
		n.doc.forget(n)
		n.doc.record(Patch{Op: PatchRemoveNode, NodeID: n.id})
	}
}
