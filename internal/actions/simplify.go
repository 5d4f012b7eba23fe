package actions

import "github.com/ludo-technologies/treediff/internal/tree"

// Simplify folds the inserts (deletes) of whole subtrees into a single
// insert-tree (delete-tree) action. The result is meant for reports; only
// the raw script can be replayed.
func Simplify(script *EditScript) *EditScript {
	inserted := make(map[*tree.Node]struct{})
	deleted := make(map[*tree.Node]struct{})
	for _, a := range script.Actions() {
		switch a.Kind {
		case Insert:
			inserted[a.Node] = struct{}{}
		case Delete:
			deleted[a.Node] = struct{}{}
		}
	}

	out := NewEditScript()
	for _, a := range script.Actions() {
		switch a.Kind {
		case Insert:
			if coveredByParent(a.Node, inserted) {
				continue
			}
			if !a.Node.IsLeaf() && allDescendantsIn(a.Node, inserted) {
				a.Kind = InsertTree
			}
		case Delete:
			if coveredByParent(a.Node, deleted) {
				continue
			}
			if !a.Node.IsLeaf() && allDescendantsIn(a.Node, deleted) {
				a.Kind = DeleteTree
			}
		}
		out.Add(a)
	}
	return out
}

// coveredByParent reports whether the parent of n is itself folded into a
// whole-subtree action
func coveredByParent(n *tree.Node, set map[*tree.Node]struct{}) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	if _, ok := set[p]; !ok {
		return false
	}
	return allDescendantsIn(p, set)
}

func allDescendantsIn(n *tree.Node, set map[*tree.Node]struct{}) bool {
	for _, d := range n.Descendants() {
		if _, ok := set[d]; !ok {
			return false
		}
	}
	return true
}
