package tree

import "fmt"

// ViolationKind identifies a broken structural invariant
type ViolationKind int

const (
	InnerNodeWithLabel ViolationKind = iota
	ChildStartsBeforeParent
	ChildEndsAfterParent
	SiblingOverlap
)

func (k ViolationKind) String() string {
	switch k {
	case InnerNodeWithLabel:
		return "inner node with label"
	case ChildStartsBeforeParent:
		return "child begins before parent"
	case ChildEndsAfterParent:
		return "child ends after parent"
	case SiblingOverlap:
		return "sibling begins before previous sibling ends"
	default:
		return "unknown violation"
	}
}

// ValidationError reports the first invariant violation found in a tree
type ValidationError struct {
	Kind ViolationKind
	Node *Node
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid tree: %s: %s", e.Kind, e.Node)
}

// Validate checks the structural invariants of the tree rooted at root:
// labeled nodes are leaves, children spans lie inside their parent span
// and sibling spans are ordered without overlap.
func Validate(root *Node) error {
	for _, t := range root.PreOrder() {
		if t.IsLeaf() {
			continue
		}
		if t.HasLabel() {
			return &ValidationError{Kind: InnerNodeWithLabel, Node: t}
		}
		first := t.Children[0]
		if first.Pos < t.Pos {
			return &ValidationError{Kind: ChildStartsBeforeParent, Node: first}
		}
		last := t.Children[len(t.Children)-1]
		if last.EndPos() > t.EndPos() {
			return &ValidationError{Kind: ChildEndsAfterParent, Node: last}
		}
		for i := 1; i < len(t.Children); i++ {
			prev, cur := t.Children[i-1], t.Children[i]
			if cur.Pos < prev.EndPos() {
				return &ValidationError{Kind: SiblingOverlap, Node: cur}
			}
		}
	}
	return nil
}
