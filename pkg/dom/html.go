package dom

import (
	"sort"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// HTML renders the document's current tree as HTML, for server-side
// rendering of the initial page and for test assertions.
func (d *Document) HTML() string {
	var buf strings.Builder
	writeNode(&buf, d.root)
	return buf.String()
}

// HTML renders the subtree rooted at n.
func (n *Node) HTML() string {
	var buf strings.Builder
	writeNode(&buf, n)
	return buf.String()
}

func writeNode(buf *strings.Builder, n *Node) {
	switch n.kind {
	case KindText:
		buf.WriteString(escapeHTML(n.text))

	case KindComment:
		buf.WriteString("<!--")
		buf.WriteString(n.text)
		buf.WriteString("-->")

	case KindFragment:
		for _, c := range n.children {
			writeNode(buf, c)
		}

	case KindElement:
		buf.WriteByte('<')
		buf.WriteString(n.tag)
		writeAttrs(buf, n)
		buf.WriteByte('>')

		if voidElements[n.tag] {
			return
		}

		for _, c := range n.children {
			writeNode(buf, c)
		}

		buf.WriteString("</")
		buf.WriteString(n.tag)
		buf.WriteByte('>')
	}
}

func writeAttrs(buf *strings.Builder, n *Node) {
	buf.WriteString(` data-grain-id="`)
	buf.WriteString(formatID(n.id))
	buf.WriteByte('"')

	// Deterministic attribute order.
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(n.attrs[k]))
		buf.WriteByte('"')
	}

	if len(n.classes) > 0 {
		buf.WriteString(` class="`)
		buf.WriteString(escapeAttr(strings.Join(n.classes, " ")))
		buf.WriteByte('"')
	}

	if len(n.styles) > 0 {
		props := make([]string, 0, len(n.styles))
		for p := range n.styles {
			props = append(props, p)
		}
		sort.Strings(props)
		buf.WriteString(` style="`)
		for i, p := range props {
			if i > 0 {
				buf.WriteByte(';')
			}
			buf.WriteString(p)
			buf.WriteByte(':')
			buf.WriteString(escapeAttr(n.styles[p]))
		}
		buf.WriteByte('"')
	}

	if n.value != "" {
		buf.WriteString(` value="`)
		buf.WriteString(escapeAttr(n.value))
		buf.WriteByte('"')
	}
	if n.checked {
		buf.WriteString(" checked")
	}
}

func formatID(id uint64) string {
	// Avoid strconv for the hot SSR path; IDs are small.
	if id == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	for id > 0 {
		i--
		digits[i] = byte('0' + id%10)
		id /= 10
	}
	return string(digits[i:])
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// In addition to the standard entities it escapes whitespace characters
// that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
