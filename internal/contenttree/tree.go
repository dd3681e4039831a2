// Package contenttree wraps a parsed HTML tree and flattens the visible
// text of every element.
//
// Script, style, noscript and template elements are left out of the
// tree. Each node's text is the concatenation, in document order, of its own
// trimmed non-blank text fragments and its children's text. Fragments
// are joined with no separator, so "<p>Hello <b>World</b></p>" flattens
// to "HelloWorld".
package contenttree

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one element of a content tree. A Node owns its children; the
// parent link is only used to navigate upwards.
type Node struct {
	tag        string
	attributes map[string]string
	children   []*Node
	text       string
	parent     *Node
}

// Parse parses an HTML document from r and builds its content tree.
// The returned root corresponds to the document node and has an empty
// tag.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return New(doc), nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// New builds a content tree rooted at n. The root has no parent.
func New(n *html.Node) *Node {
	return build(n, nil)
}

func build(n *html.Node, parent *Node) *Node {
	node := &Node{
		attributes: make(map[string]string, len(n.Attr)),
		parent:     parent,
	}
	if n.Type == html.ElementNode {
		node.tag = n.Data
	}
	for _, a := range n.Attr {
		if _, ok := node.attributes[a.Key]; !ok {
			node.attributes[a.Key] = a.Val
		}
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(strings.TrimSpace(c.Data))
		case html.ElementNode:
			if hidden(c) {
				continue
			}
			child := build(c, node)
			text.WriteString(child.text)
			node.children = append(node.children, child)
		}
	}
	node.text = strings.TrimSpace(text.String())

	return node
}

// hidden reports whether n holds raw text that is never displayed.
func hidden(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

// Tag returns the element name, or "" for a document root.
func (n *Node) Tag() string {
	return n.tag
}

// Content returns the flattened text of the subtree rooted at n.
func (n *Node) Content() string {
	return n.text
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attributes[name]
	return v, ok
}

// Attributes returns a copy of the node's attributes.
func (n *Node) Attributes() map[string]string {
	out := make(map[string]string, len(n.attributes))
	for k, v := range n.attributes {
		out[k] = v
	}
	return out
}

// Children returns the child elements in document order.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the node that built n, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns every descendant of n (n included) with the given tag,
// in document order.
func (n *Node) Find(tag string) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if c.tag == tag {
			found = append(found, c)
		}
		return true
	})
	return found
}
