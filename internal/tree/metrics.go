package tree

import (
	"github.com/cespare/xxhash/v2"
)

// hashBase is the base of the rolling subtree hash
const hashBase uint64 = 33

const (
	enterMarker = "enter"
	leaveMarker = "leave"
)

// Metrics are per-node values computed by Refresh
type Metrics struct {
	Size          int
	Height        int
	Depth         int
	Hash          uint64
	StructureHash uint64
	Position      int
}

// Metrics returns the metrics computed by the last Refresh
func (n *Node) Metrics() Metrics {
	return n.metrics
}

// Size is a shorthand for Metrics().Size
func (n *Node) Size() int { return n.metrics.Size }

// Height is a shorthand for Metrics().Height
func (n *Node) Height() int { return n.metrics.Height }

// Depth is a shorthand for Metrics().Depth
func (n *Node) Depth() int { return n.metrics.Depth }

// Hash is a shorthand for Metrics().Hash
func (n *Node) Hash() uint64 { return n.metrics.Hash }

// StructureHash is a shorthand for Metrics().StructureHash
func (n *Node) StructureHash() uint64 { return n.metrics.StructureHash }

// Position is a shorthand for Metrics().Position
func (n *Node) Position() int { return n.metrics.Position }

// Refresh recomputes the metrics of every node of the tree rooted at root.
// It must be called again after any mutation.
func Refresh(root *Node) {
	c := &metricComputer{}
	c.visit(root, 0)
}

type metricComputer struct {
	position int
}

func (c *metricComputer) visit(n *Node, depth int) {
	m := &n.metrics
	m.Depth = depth

	sumSize := 0
	maxHeight := -1
	var midHash, midStructure uint64
	for _, child := range n.Children {
		c.visit(child, depth+1)
		cm := child.metrics
		exp := uint64(2*sumSize + 1)
		midHash += cm.Hash * pow(hashBase, exp)
		midStructure += cm.StructureHash * pow(hashBase, exp)
		sumSize += cm.Size
		if cm.Height > maxHeight {
			maxHeight = cm.Height
		}
	}

	typeName := n.Type.Name()
	closing := pow(hashBase, uint64(2*sumSize+1))
	m.Size = sumSize + 1
	m.Height = maxHeight + 1
	m.Hash = innerHash(typeName, n.Label, enterMarker) + midHash +
		innerHash(typeName, n.Label, leaveMarker)*closing
	m.StructureHash = innerHash(typeName, NoLabel, enterMarker) + midStructure +
		innerHash(typeName, NoLabel, leaveMarker)*closing
	m.Position = c.position
	c.position++
}

func innerHash(typeName, label, marker string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(typeName)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(label)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(marker)
	return d.Sum64()
}

// pow computes base^exp with wrapping arithmetic
func pow(base, exp uint64) uint64 {
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
