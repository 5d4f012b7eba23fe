package tree

// Builder creates nodes whose types come from one TypeSet
type Builder struct {
	Types *TypeSet
}

// NewBuilder creates a builder over types, or over a fresh set if nil
func NewBuilder(types *TypeSet) *Builder {
	if types == nil {
		types = NewTypeSet()
	}
	return &Builder{Types: types}
}

// Node creates a node of the named type with the given children
func (b *Builder) Node(typ, label string, children ...*Node) *Node {
	n := NewNode(b.Types.Get(typ), label, 0, 0)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// Spanned creates a node with an explicit span
func (b *Builder) Spanned(typ, label string, pos, length int, children ...*Node) *Node {
	n := b.Node(typ, label, children...)
	n.Pos = pos
	n.Length = length
	return n
}
