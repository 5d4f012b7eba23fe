package tree

import (
	"fmt"
	"strings"
)

// NoLabel is the label of nodes that carry none
const NoLabel = ""

// Node is a node of an ordered labeled tree
type Node struct {
	Type  *Type
	Label string

	// Span in the source artifact. Only used for validation, tie-breaks
	// and reporting.
	Pos    int
	Length int

	Children []*Node
	Metadata map[string]interface{}

	parent  *Node
	metrics Metrics
}

// NewNode creates a detached node
func NewNode(typ *Type, label string, pos, length int) *Node {
	return &Node{
		Type:   typ,
		Label:  label,
		Pos:    pos,
		Length: length,
	}
}

// Parent returns the parent node, nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// SetParent overrides the parent back-reference without touching the
// parent's children.
func (n *Node) SetParent(p *Node) {
	n.parent = p
}

// EndPos returns the end offset of the node span
func (n *Node) EndPos() int {
	return n.Pos + n.Length
}

// AddChild appends child and sets its parent
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// InsertChild inserts child at index i. An index past the end appends.
func (n *Node) InsertChild(i int, child *Node) {
	if i < 0 {
		i = 0
	}
	if i >= len(n.Children) {
		n.AddChild(child)
		return
	}
	child.parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// RemoveChild detaches child and returns its former index, or -1 if child
// is not a child of n.
func (n *Node) RemoveChild(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return i
		}
	}
	return -1
}

// ChildPosition returns the index of n among its siblings, -1 for a root
func (n *Node) ChildPosition() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Child returns the i-th child
func (n *Node) Child(i int) *Node {
	return n.Children[i]
}

// IsLeaf reports whether n has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsRoot reports whether n has no parent
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// HasLabel reports whether n carries a label
func (n *Node) HasLabel() bool {
	return n.Label != NoLabel
}

// HasSameType reports whether n and o share their interned type
func (n *Node) HasSameType(o *Node) bool {
	return n.Type == o.Type
}

// HasSameTypeAndLabel reports whether n and o share type and label
func (n *Node) HasSameTypeAndLabel(o *Node) bool {
	return n.Type == o.Type && n.Label == o.Label
}

// Ancestors returns the chain of parents, nearest first
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// IsDescendantOf reports whether a is a strict ancestor of n
func (n *Node) IsDescendantOf(a *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// SetMetadata stores a metadata value
func (n *Node) SetMetadata(key string, value interface{}) {
	if n.Metadata == nil {
		n.Metadata = make(map[string]interface{})
	}
	n.Metadata[key] = value
}

// GetMetadata returns a metadata value
func (n *Node) GetMetadata(key string) (interface{}, bool) {
	v, ok := n.Metadata[key]
	return v, ok
}

// String renders the node as "Type: label [pos,end]"
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.Type.Name())
	if n.HasLabel() {
		sb.WriteString(": ")
		sb.WriteString(n.Label)
	}
	fmt.Fprintf(&sb, " [%d,%d]", n.Pos, n.EndPos())
	return sb.String()
}

// TreeString renders the subtree rooted at n with one node per line
func (n *Node) TreeString() string {
	var sb strings.Builder
	writeTree(&sb, n, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, n *Node, indent int) {
	sb.WriteString(strings.Repeat("    ", indent))
	sb.WriteString(n.String())
	sb.WriteByte('\n')
	for _, c := range n.Children {
		writeTree(sb, c, indent+1)
	}
}

// DeepCopy returns an independent copy of the subtree rooted at n. The
// copy is detached and keeps the metrics of the original. Metadata maps are
// copied shallowly.
func (n *Node) DeepCopy() *Node {
	c := &Node{
		Type:    n.Type,
		Label:   n.Label,
		Pos:     n.Pos,
		Length:  n.Length,
		metrics: n.metrics,
	}
	if len(n.Metadata) > 0 {
		c.Metadata = make(map[string]interface{}, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.AddChild(child.DeepCopy())
		}
	}
	return c
}

// Context holds a generated tree together with the type set used to build it
type Context struct {
	Root     *Node
	Types    *TypeSet
	Metadata map[string]string
}

// NewContext creates a context around root
func NewContext(root *Node, types *TypeSet) *Context {
	return &Context{
		Root:     root,
		Types:    types,
		Metadata: make(map[string]string),
	}
}
