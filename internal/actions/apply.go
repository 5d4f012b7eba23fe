package actions

import (
	"fmt"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// Apply replays script on a copy of src and returns the resulting tree with
// refreshed metrics. src is left untouched.
func Apply(src *tree.Node, script *EditScript) (*tree.Node, error) {
	virtual := &tree.Node{}
	cp := src.DeepCopy()
	virtual.AddChild(cp)

	nodes := make(map[*tree.Node]*tree.Node)
	origNodes := src.PreOrder()
	for i, n := range cp.PreOrder() {
		nodes[origNodes[i]] = n
	}
	resolve := func(n *tree.Node) (*tree.Node, error) {
		if n == nil {
			return virtual, nil
		}
		if c, ok := nodes[n]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("action refers to unknown node %s", n)
	}

	for i, a := range script.Actions() {
		if err := applyAction(a, resolve, nodes); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a.Kind, err)
		}
	}

	if len(virtual.Children) != 1 {
		return nil, fmt.Errorf("script leaves %d roots", len(virtual.Children))
	}
	root := virtual.Children[0]
	virtual.RemoveChild(root)
	tree.Refresh(root)
	return root, nil
}

func applyAction(a Action, resolve func(*tree.Node) (*tree.Node, error), nodes map[*tree.Node]*tree.Node) error {
	switch a.Kind {
	case Insert:
		parent, err := resolve(a.Parent)
		if err != nil {
			return err
		}
		if a.Position < 0 || a.Position > len(parent.Children) {
			return fmt.Errorf("position %d out of range for %d children", a.Position, len(parent.Children))
		}
		n := tree.NewNode(a.Node.Type, a.Node.Label, a.Node.Pos, a.Node.Length)
		nodes[a.Node] = n
		parent.InsertChild(a.Position, n)

	case Delete:
		n, err := resolve(a.Node)
		if err != nil {
			return err
		}
		if !n.IsLeaf() {
			return fmt.Errorf("deleting %s which still has %d children", n, len(n.Children))
		}
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
		delete(nodes, a.Node)

	case Update:
		n, err := resolve(a.Node)
		if err != nil {
			return err
		}
		n.Label = a.Value

	case Move:
		n, err := resolve(a.Node)
		if err != nil {
			return err
		}
		parent, err := resolve(a.Parent)
		if err != nil {
			return err
		}
		if n == parent || parent.IsDescendantOf(n) {
			return fmt.Errorf("cannot move %s below itself", n)
		}
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
		if a.Position < 0 || a.Position > len(parent.Children) {
			return fmt.Errorf("position %d out of range for %d children", a.Position, len(parent.Children))
		}
		parent.InsertChild(a.Position, n)

	default:
		return fmt.Errorf("cannot replay %s", a.Kind)
	}
	return nil
}
