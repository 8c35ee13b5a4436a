package ui

import (
	"strings"

	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/reactive"
)

// Build materializes cfg into a concrete node tree in doc.
//
// When the tag path encodes a chain ("div>span"), the whole chain is built
// and the outermost element returned, while classes, attributes, events and
// children apply to the innermost element.
func Build(doc *dom.Document, cfg Config) *dom.Node {
	root, _ := buildNode(doc, cfg)
	return root
}

// buildNode builds the chain and returns (outermost, attachment point).
func buildNode(doc *dom.Document, cfg Config) (*dom.Node, *dom.Node) {
	segs := parseTagPath(cfg.Tag)

	var root, attach *dom.Node
	for _, seg := range segs {
		el := doc.CreateElement(seg.tag)
		if seg.id != "" {
			el.SetAttr("id", seg.id)
		}
		for _, c := range seg.classes {
			el.AddClass(c)
		}
		if root == nil {
			root = el
		} else {
			attach.AppendChild(el)
		}
		attach = el
	}

	for _, c := range cfg.Classes {
		bindClass(attach, c)
	}
	for _, a := range cfg.Attrs {
		bindAttr(attach, a)
	}
	for _, ev := range cfg.Events {
		attach.On(ev.name, ev.handler)
	}
	appendChildren(doc, attach, cfg.Children)

	return root, attach
}

// segment is one parsed element of a tag path.
type segment struct {
	tag     string
	id      string
	classes []string
}

// parseTagPath splits an emmet-lite path into segments. Each segment is
// scanned in a single pass, switching the write target at '#' and '.'.
func parseTagPath(path string) []segment {
	parts := strings.Split(path, ">")
	segs := make([]segment, 0, len(parts))

	for _, part := range parts {
		var seg segment
		target := &seg.tag

		for _, r := range part {
			switch r {
			case '#':
				target = &seg.id
			case '.':
				seg.classes = append(seg.classes, "")
				target = &seg.classes[len(seg.classes)-1]
			default:
				*target += string(r)
			}
		}

		if seg.tag == "" {
			seg.tag = "div"
		}
		segs = append(segs, seg)
	}

	return segs
}

// bindClass applies one class binding to the attachment point.
func bindClass(n *dom.Node, c Class) {
	if c.produce == nil {
		n.AddClass(c.literal)
		return
	}

	prev := ""
	reactive.NewEffect(func() {
		next := c.produce()
		if next == prev {
			return
		}
		if prev != "" {
			n.RemoveClass(prev)
		}
		if next != "" {
			n.AddClass(next)
		}
		prev = next
	})
}

// bindAttr applies one attribute binding to the attachment point.
func bindAttr(n *dom.Node, a Attr) {
	if a.produce == nil {
		n.SetAttr(a.key, a.literal)
		return
	}

	reactive.NewEffect(func() {
		if v := a.produce(); v == "" {
			n.RemoveAttr(a.key)
		} else {
			n.SetAttr(a.key, v)
		}
	})
}

// appendChildren resolves child variants in order onto the attachment point.
func appendChildren(doc *dom.Document, n *dom.Node, children []Child) {
	for _, c := range children {
		switch {
		case c.node != nil:
			n.AppendChild(c.node)
		case c.isText:
			n.AppendChild(doc.CreateText(c.text))
		case c.produceText != nil:
			n.AppendChild(Text(doc, c.produceText))
		case c.produceMany != nil:
			appendChildren(doc, n, c.produceMany())
		case c.many != nil:
			appendChildren(doc, n, c.many)
		}
	}
}

// Text creates a text node whose content is kept in sync by its own effect:
// every dependency change re-reads the producer.
func Text(doc *dom.Document, produce func() string) *dom.Node {
	n := doc.CreateText("")
	reactive.NewEffect(func() {
		n.SetText(produce())
	})
	return n
}
