package matcher

import (
	"math"
	"sort"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// mappingComparator orders ambiguous candidate pairs from the most to the
// least plausible: sibling context, ancestor chains, position in parent,
// absolute position, then post-order positions as a total order.
type mappingComparator struct {
	mappings   *MappingStore
	siblingSim map[Mapping]float64
	parentSim  map[Mapping]float64
}

func newMappingComparator(m *MappingStore) *mappingComparator {
	return &mappingComparator{
		mappings:   m,
		siblingSim: make(map[Mapping]float64),
		parentSim:  make(map[Mapping]float64),
	}
}

// sort orders candidates in place, best first
func (c *mappingComparator) sort(candidates []Mapping) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return c.compare(candidates[i], candidates[j]) < 0
	})
}

func (c *mappingComparator) compare(m1, m2 Mapping) int {
	if !sameParents(m1, m2) {
		if r := compareDesc(c.siblingsSimilarity(m1), c.siblingsSimilarity(m2)); r != 0 {
			return r
		}
		if r := compareDesc(c.parentsSimilarity(m1), c.parentsSimilarity(m2)); r != 0 {
			return r
		}
	}
	if r := compareDesc(positionInParentSimilarity(m1), positionInParentSimilarity(m2)); r != 0 {
		return r
	}
	if r := compareInt(absolutePositionDistance(m1), absolutePositionDistance(m2)); r != 0 {
		return r
	}
	if r := compareInt(m1.Src.Position(), m2.Src.Position()); r != 0 {
		return r
	}
	return compareInt(m1.Dst.Position(), m2.Dst.Position())
}

func (c *mappingComparator) siblingsSimilarity(m Mapping) float64 {
	if v, ok := c.siblingSim[m]; ok {
		return v
	}
	sp, dp := m.Src.Parent(), m.Dst.Parent()
	var v float64
	if sp != nil && dp != nil {
		common := float64(NumberOfMappedDescendants(sp, dp, c.mappings))
		v = DiceCoefficient(common, float64(sp.Size()-1), float64(dp.Size()-1))
	}
	c.siblingSim[m] = v
	return v
}

func (c *mappingComparator) parentsSimilarity(m Mapping) float64 {
	if v, ok := c.parentSim[m]; ok {
		return v
	}
	sa, da := m.Src.Ancestors(), m.Dst.Ancestors()
	common := float64(lcsTypeLabel(sa, da))
	v := DiceCoefficient(common, float64(len(sa)), float64(len(da)))
	c.parentSim[m] = v
	return v
}

func sameParents(m1, m2 Mapping) bool {
	return m1.Src.Parent() == m2.Src.Parent() && m1.Dst.Parent() == m2.Dst.Parent()
}

func positionInParentSimilarity(m Mapping) float64 {
	return 1 - math.Abs(relativePosition(m.Src)-relativePosition(m.Dst))
}

func relativePosition(n *tree.Node) float64 {
	if n.IsRoot() {
		return 1
	}
	return float64(n.ChildPosition()+1) / float64(len(n.Parent().Children))
}

func absolutePositionDistance(m Mapping) int {
	d := m.Src.Position() - m.Dst.Position()
	if d < 0 {
		return -d
	}
	return d
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
