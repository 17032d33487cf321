// Package document is the format-neutral tree the codec reads and writes:
// named nodes with string attributes and either ordered children or text.
package document

import (
	"maps"
	"slices"
	"sort"
)

// Node is one element of a document.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// New creates a node named name.
func New(name string) *Node {
	return &Node{Name: name}
}

// NewText creates a leaf node carrying text.
func NewText(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// SetAttr sets an attribute, replacing any previous value.
func (n *Node) SetAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Append adds children in order and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the first child named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Equal reports whether two trees have the same names, attributes, text and
// child order.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Name != o.Name || n.Text != o.Text || len(n.Children) != len(o.Children) {
		return false
	}
	if len(n.Attrs) != len(o.Attrs) || !maps.Equal(n.Attrs, o.Attrs) {
		return false
	}
	return slices.EqualFunc(n.Children, o.Children, (*Node).Equal)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Text: n.Text}
	if n.Attrs != nil {
		c.Attrs = maps.Clone(n.Attrs)
	}
	for _, ch := range n.Children {
		c.Children = append(c.Children, ch.Clone())
	}
	return c
}

// Walk calls fn for n and every descendant, in pre-order, with the depth of
// each node (the root is at depth 0).
func (n *Node) Walk(fn func(*Node, int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
