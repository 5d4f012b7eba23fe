package matcher

import (
	"math"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// CostModel defines the costs of the edit operations of the optimal aligner
type CostModel interface {
	// Insert returns the cost of inserting a node
	Insert(node *tree.Node) float64

	// Delete returns the cost of deleting a node
	Delete(node *tree.Node) float64

	// Rename returns the cost of turning src into dst
	Rename(src, dst *tree.Node) float64
}

// UnitCostModel charges 1 for inserts, deletes and relabels, nothing for
// identical nodes, and forbids renaming across types.
type UnitCostModel struct{}

// NewUnitCostModel creates a unit cost model
func NewUnitCostModel() *UnitCostModel {
	return &UnitCostModel{}
}

// Insert always costs 1
func (c *UnitCostModel) Insert(node *tree.Node) float64 {
	return 1.0
}

// Delete always costs 1
func (c *UnitCostModel) Delete(node *tree.Node) float64 {
	return 1.0
}

// Rename costs 0 for identical type and label, 1 for a relabel and
// +Inf across types
func (c *UnitCostModel) Rename(src, dst *tree.Node) float64 {
	if !src.HasSameType(dst) {
		return math.Inf(1)
	}
	if src.Label == dst.Label {
		return 0.0
	}
	return 1.0
}
