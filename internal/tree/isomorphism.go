package tree

import (
	"strconv"
	"strings"
)

// Isomorphic reports whether the subtrees rooted at a and b have the same
// types and labels in the same shape. Hashes are compared first; the
// bracketed serializations decide.
func Isomorphic(a, b *Node) bool {
	if a.metrics.Hash != b.metrics.Hash {
		return false
	}
	return sameShape(a, b, true)
}

// IsoStructural is Isomorphic with labels ignored
func IsoStructural(a, b *Node) bool {
	if a.metrics.StructureHash != b.metrics.StructureHash {
		return false
	}
	return sameShape(a, b, false)
}

// sameShape walks both subtrees in lock-step, which is equivalent to
// comparing their bracketed serializations without materializing them.
func sameShape(a, b *Node, withLabels bool) bool {
	if a.Type != b.Type || len(a.Children) != len(b.Children) {
		return false
	}
	if withLabels && a.Label != b.Label {
		return false
	}
	for i := range a.Children {
		if !sameShape(a.Children[i], b.Children[i], withLabels) {
			return false
		}
	}
	return true
}

// BracketString serializes the subtree rooted at n as nested
// "(len:type len:label children...)" groups. Lengths make the encoding
// unambiguous for any type or label text.
func BracketString(n *Node, withLabels bool) string {
	var sb strings.Builder
	writeBracket(&sb, n, withLabels)
	return sb.String()
}

func writeBracket(sb *strings.Builder, n *Node, withLabels bool) {
	sb.WriteByte('(')
	writeToken(sb, n.Type.Name())
	if withLabels {
		writeToken(sb, n.Label)
	}
	for _, c := range n.Children {
		writeBracket(sb, c, withLabels)
	}
	sb.WriteByte(')')
}

func writeToken(sb *strings.Builder, s string) {
	sb.WriteString(strconv.Itoa(len(s)))
	sb.WriteByte(':')
	sb.WriteString(s)
}
