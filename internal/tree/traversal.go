package tree

// PreOrder returns the subtree rooted at n in pre-order
func (n *Node) PreOrder() []*Node {
	out := make([]*Node, 0, n.sizeHint())
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}

// PostOrder returns the subtree rooted at n in post-order
func (n *Node) PostOrder() []*Node {
	out := make([]*Node, 0, n.sizeHint())
	type frame struct {
		node *Node
		next int
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			stack = append(stack, frame{node: child})
			continue
		}
		out = append(out, top.node)
		stack = stack[:len(stack)-1]
	}
	return out
}

// BreadthFirst returns the subtree rooted at n level by level
func (n *Node) BreadthFirst() []*Node {
	out := make([]*Node, 0, n.sizeHint())
	out = append(out, n)
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Children...)
	}
	return out
}

// Descendants returns every node below n in pre-order, excluding n
func (n *Node) Descendants() []*Node {
	return n.PreOrder()[1:]
}

func (n *Node) sizeHint() int {
	if n.metrics.Size > 0 {
		return n.metrics.Size
	}
	return 16
}
