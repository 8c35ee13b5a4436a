package protocol

import (
	"fmt"
	"sort"

	"github.com/grainui/grain/pkg/dom"
)

// sortedKeys returns map keys in lexical order for deterministic encoding.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NodeWire is the wire format for a dom subtree.
// It contains only serializable data; event handlers never cross the wire.
type NodeWire struct {
	Kind     dom.Kind
	ID       uint64
	Tag      string
	Attrs    map[string]string
	Classes  []string
	Styles   map[string]string
	Text     string
	Value    string
	Checked  bool
	Children []*NodeWire
}

// NodeToWire converts a dom node to wire format, recursively.
func NodeToWire(n *dom.Node) *NodeWire {
	if n == nil {
		return nil
	}

	w := &NodeWire{
		Kind:    n.Kind(),
		ID:      n.ID(),
		Tag:     n.Tag(),
		Text:    n.Text(),
		Value:   n.Value(),
		Checked: n.Checked(),
	}

	if classes := n.Classes(); len(classes) > 0 {
		w.Classes = append([]string(nil), classes...)
	}
	w.Attrs = n.Attrs()
	w.Styles = n.Styles()

	if children := n.Children(); len(children) > 0 {
		w.Children = make([]*NodeWire, 0, len(children))
		for _, c := range children {
			w.Children = append(w.Children, NodeToWire(c))
		}
	}

	return w
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []dom.Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))

	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// encodePatch encodes a single patch.
func encodePatch(e *Encoder, p *dom.Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(p.NodeID)

	switch p.Op {
	case dom.PatchSetText, dom.PatchSetValue, dom.PatchSetChecked:
		e.WriteString(p.Value)

	case dom.PatchSetAttr, dom.PatchSetStyle:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case dom.PatchRemoveAttr, dom.PatchAddClass, dom.PatchRemoveClass, dom.PatchRemoveStyle:
		e.WriteString(p.Key)

	case dom.PatchInsertNode:
		e.WriteUvarint(p.ParentID)
		e.WriteUvarint(uint64(p.Index))
		encodeNodeWire(e, NodeToWire(p.Node))

	case dom.PatchRemoveNode:
		// Node ID is sufficient.

	case dom.PatchMoveNode:
		e.WriteUvarint(p.ParentID)
		e.WriteUvarint(uint64(p.Index))

	case dom.PatchReplaceNode:
		encodeNodeWire(e, NodeToWire(p.Node))
	}
}

// DecodedPatch is the client-side view of a patch: the subtree arrives as a
// NodeWire rather than a live node.
type DecodedPatch struct {
	Op       dom.PatchOp
	NodeID   uint64
	ParentID uint64
	Key      string
	Value    string
	Index    int
	Node     *NodeWire
}

// DecodePatches decodes a patches frame.
func DecodePatches(data []byte) (uint64, []DecodedPatch, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, err
	}

	count, err := d.ReadCount()
	if err != nil {
		return 0, nil, err
	}

	patches := make([]DecodedPatch, 0, count)
	for i := 0; i < count; i++ {
		p, err := decodePatch(d)
		if err != nil {
			return 0, nil, fmt.Errorf("patch %d: %w", i, err)
		}
		patches = append(patches, p)
	}

	return seq, patches, nil
}

func decodePatch(d *Decoder) (DecodedPatch, error) {
	var p DecodedPatch

	op, err := d.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = dom.PatchOp(op)

	if p.NodeID, err = d.ReadUvarint(); err != nil {
		return p, err
	}

	switch p.Op {
	case dom.PatchSetText, dom.PatchSetValue, dom.PatchSetChecked:
		p.Value, err = d.ReadString()

	case dom.PatchSetAttr, dom.PatchSetStyle:
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
		p.Value, err = d.ReadString()

	case dom.PatchRemoveAttr, dom.PatchAddClass, dom.PatchRemoveClass, dom.PatchRemoveStyle:
		p.Key, err = d.ReadString()

	case dom.PatchInsertNode:
		if p.ParentID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		var idx uint64
		if idx, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.Index = int(idx)
		p.Node, err = decodeNodeWire(d)

	case dom.PatchRemoveNode:
		// Nothing further.

	case dom.PatchMoveNode:
		if p.ParentID, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		var idx uint64
		if idx, err = d.ReadUvarint(); err != nil {
			return p, err
		}
		p.Index = int(idx)

	case dom.PatchReplaceNode:
		p.Node, err = decodeNodeWire(d)

	default:
		return p, fmt.Errorf("protocol: unknown patch op 0x%02x", op)
	}

	return p, err
}

// encodeNodeWire encodes a subtree. A nil node is a single 0xFF marker.
func encodeNodeWire(e *Encoder, w *NodeWire) {
	if w == nil {
		e.WriteByte(0xFF)
		return
	}

	e.WriteByte(byte(w.Kind))
	e.WriteUvarint(w.ID)
	e.WriteString(w.Tag)

	e.WriteUvarint(uint64(len(w.Attrs)))
	for _, k := range sortedKeys(w.Attrs) {
		e.WriteString(k)
		e.WriteString(w.Attrs[k])
	}

	e.WriteUvarint(uint64(len(w.Classes)))
	for _, c := range w.Classes {
		e.WriteString(c)
	}

	e.WriteUvarint(uint64(len(w.Styles)))
	for _, k := range sortedKeys(w.Styles) {
		e.WriteString(k)
		e.WriteString(w.Styles[k])
	}

	e.WriteString(w.Text)
	e.WriteString(w.Value)
	e.WriteBool(w.Checked)

	e.WriteUvarint(uint64(len(w.Children)))
	for _, c := range w.Children {
		encodeNodeWire(e, c)
	}
}

func decodeNodeWire(d *Decoder) (*NodeWire, error) {
	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind == 0xFF {
		return nil, nil
	}

	w := &NodeWire{Kind: dom.Kind(kind)}

	if w.ID, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if w.Tag, err = d.ReadString(); err != nil {
		return nil, err
	}

	attrCount, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if attrCount > 0 {
		w.Attrs = make(map[string]string, attrCount)
		for i := 0; i < attrCount; i++ {
			k, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			if w.Attrs[k], err = d.ReadString(); err != nil {
				return nil, err
			}
		}
	}

	classCount, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < classCount; i++ {
		c, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		w.Classes = append(w.Classes, c)
	}

	styleCount, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if styleCount > 0 {
		w.Styles = make(map[string]string, styleCount)
		for i := 0; i < styleCount; i++ {
			k, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			if w.Styles[k], err = d.ReadString(); err != nil {
				return nil, err
			}
		}
	}

	if w.Text, err = d.ReadString(); err != nil {
		return nil, err
	}
	if w.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	if w.Checked, err = d.ReadBool(); err != nil {
		return nil, err
	}

	childCount, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < childCount; i++ {
		c, err := decodeNodeWire(d)
		if err != nil {
			return nil, err
		}
		w.Children = append(w.Children, c)
	}

	return w, nil
}
