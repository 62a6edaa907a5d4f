package surface

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const svgNamespace = "svg"

// A builds an attribute
func A(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// AF builds an attribute with a numeric value
func AF(key string, v float64) html.Attribute {
	return html.Attribute{Key: key, Val: F(v)}
}

// F formats a coordinate with at most two decimals
func F(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// El creates an SVG element with attrs and optional children
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: svgNamespace,
		Attr:      attrs,
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// Text creates a text node
func Text(content string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// TextEl creates a <text> element holding content
func TextEl(content string, attrs ...html.Attribute) *html.Node {
	return El("text", attrs, Text(content))
}

// Group creates a <g> element
func Group(attrs ...html.Attribute) *html.Node {
	return El("g", attrs)
}

// Append adds children to parent and returns parent
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

// Style renders a style attribute with keys sorted so output is stable
func Style(m map[string]string) html.Attribute {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s strings.Builder
	for _, k := range keys {
		s.WriteString(k)
		s.WriteByte(':')
		s.WriteString(m[k])
		s.WriteByte(';')
	}
	return html.Attribute{Key: "style", Val: s.String()}
}

// Translate formats an SVG translate transform
func Translate(x, y float64) string {
	return "translate(" + F(x) + "," + F(y) + ")"
}

// Attr returns the value of key on n
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets key on n, replacing an existing value
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// ID returns the id attribute of n
func ID(n *html.Node) string {
	id, _ := Attr(n, "id")
	return id
}

// HasClass reports whether n's class list contains class
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first until fn returns false
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// FindByID returns the element with id under any of roots
func FindByID(roots []*html.Node, id string) *html.Node {
	var found *html.Node
	for _, r := range roots {
		Walk(r, func(n *html.Node) bool {
			if n.Type == html.ElementNode && ID(n) == id {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element under roots matching pred, in document order
func FindAll(roots []*html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for _, r := range roots {
		Walk(r, func(n *html.Node) bool {
			if n.Type == html.ElementNode && pred(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// ByClass matches elements carrying class
func ByClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return HasClass(n, class) }
}

// ByTag matches elements named tag
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

// TextContent concatenates the text below n
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Render serializes nodes as markup
func Render(nodes ...*html.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
