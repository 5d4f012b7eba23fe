package matcher

import (
	"sort"

	"github.com/ludo-technologies/treediff/internal/assignment"
	"github.com/ludo-technologies/treediff/internal/tree"
)

// CollectIsomorphicCandidates links every pair of isomorphic subtrees found
// by walking both trees from the largest priority down. Linked subtrees
// are not opened, so candidate subtrees never nest on either side.
func CollectIsomorphicCandidates(src, dst *tree.Node, opts Options) *MultiMappingStore {
	multi := NewMultiMappingStore()
	srcQueue := NewPriorityQueue(src, opts)
	dstQueue := NewPriorityQueue(dst, opts)

	for Synchronize(srcQueue, dstQueue) {
		srcs := srcQueue.Pop()
		dsts := dstQueue.Pop()

		srcMarks := make([]bool, len(srcs))
		dstMarks := make([]bool, len(dsts))
		for i, s := range srcs {
			for j, d := range dsts {
				if tree.Isomorphic(s, d) {
					multi.Link(s, d)
					srcMarks[i] = true
					dstMarks[j] = true
				}
			}
		}

		for i, marked := range srcMarks {
			if !marked {
				srcQueue.Open(srcs[i])
			}
		}
		for j, marked := range dstMarks {
			if !marked {
				dstQueue.Open(dsts[j])
			}
		}
	}
	return multi
}

// clique is a group of interchangeable candidate subtrees
type clique struct {
	srcs []*tree.Node
	dsts []*tree.Node
}

// splitCandidates commits unique pairs and returns the ambiguous cliques.
// Srcs are visited largest first so that big anchors are settled before
// smaller ones.
func splitCandidates(multi *MultiMappingStore, m *MappingStore) []clique {
	srcs := multi.Srcs()
	sort.SliceStable(srcs, func(i, j int) bool {
		return srcs[i].Size() > srcs[j].Size()
	})

	var ambiguous []clique
	seen := make(map[*tree.Node]struct{})
	for _, s := range srcs {
		if multi.IsSrcUnique(s) {
			d := multi.DstsOf(s)[0]
			if m.AreBothUnmapped(s, d) {
				_ = m.AddRecursively(s, d)
			}
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		dsts := multi.DstsOf(s)
		group := multi.SrcsOf(dsts[0])
		for _, g := range group {
			seen[g] = struct{}{}
		}
		ambiguous = append(ambiguous, clique{srcs: group, dsts: dsts})
	}
	return ambiguous
}

// GreedySubtreeMatcher anchors isomorphic subtrees and resolves ambiguous
// candidates with the full mapping comparator
type GreedySubtreeMatcher struct {
	opts Options
}

// NewGreedySubtreeMatcher creates the matcher
func NewGreedySubtreeMatcher(opts Options) *GreedySubtreeMatcher {
	return &GreedySubtreeMatcher{opts: opts}
}

// Name implements Stage
func (g *GreedySubtreeMatcher) Name() string { return "greedy-subtree" }

// Match implements Stage
func (g *GreedySubtreeMatcher) Match(src, dst *tree.Node, m *MappingStore) *MappingStore {
	multi := CollectIsomorphicCandidates(src, dst, g.opts)
	ambiguous := splitCandidates(multi, m)

	var candidates []Mapping
	for _, c := range ambiguous {
		for _, s := range c.srcs {
			for _, d := range c.dsts {
				candidates = append(candidates, Mapping{Src: s, Dst: d})
			}
		}
	}
	newMappingComparator(m).sort(candidates)
	g.retainBest(candidates, m)

	g.opts.debug("subtree matching done", "candidates", multi.Size(), "ambiguous", len(candidates), "mappings", m.Size())
	return m
}

func (g *GreedySubtreeMatcher) retainBest(candidates []Mapping, m *MappingStore) {
	srcIgnored := make(map[*tree.Node]struct{})
	dstIgnored := make(map[*tree.Node]struct{})
	for _, c := range candidates {
		if _, ok := srcIgnored[c.Src]; ok {
			continue
		}
		if _, ok := dstIgnored[c.Dst]; ok {
			continue
		}
		if !m.AreBothUnmapped(c.Src, c.Dst) {
			continue
		}
		_ = m.AddRecursively(c.Src, c.Dst)
		for _, n := range c.Src.PreOrder() {
			srcIgnored[n] = struct{}{}
		}
		for _, n := range c.Dst.PreOrder() {
			dstIgnored[n] = struct{}{}
		}
	}
}

// HungarianSubtreeMatcher anchors isomorphic subtrees and resolves each
// ambiguous clique with an optimal assignment
type HungarianSubtreeMatcher struct {
	opts Options
}

// NewHungarianSubtreeMatcher creates the matcher
func NewHungarianSubtreeMatcher(opts Options) *HungarianSubtreeMatcher {
	return &HungarianSubtreeMatcher{opts: opts}
}

// Name implements Stage
func (h *HungarianSubtreeMatcher) Name() string { return "hungarian-subtree" }

// Match implements Stage
func (h *HungarianSubtreeMatcher) Match(src, dst *tree.Node, m *MappingStore) *MappingStore {
	multi := CollectIsomorphicCandidates(src, dst, h.opts)
	ambiguous := splitCandidates(multi, m)
	maxTreeSize := max(src.Size(), dst.Size())

	sort.SliceStable(ambiguous, func(i, j int) bool {
		return impact(ambiguous[i]) < impact(ambiguous[j])
	})

	for _, c := range ambiguous {
		costs := make([][]float64, len(c.srcs))
		for i, s := range c.srcs {
			costs[i] = make([]float64, len(c.dsts))
			for j, d := range c.dsts {
				costs[i][j] = hungarianCost(s, d, m, maxTreeSize)
			}
		}
		solution, err := assignment.Solve(costs)
		if err != nil {
			continue
		}
		for i, j := range solution {
			if j == assignment.Unassigned {
				continue
			}
			if m.AreBothUnmapped(c.srcs[i], c.dsts[j]) {
				_ = m.AddRecursively(c.srcs[i], c.dsts[j])
			}
		}
	}

	h.opts.debug("hungarian subtree matching done", "cliques", len(ambiguous), "mappings", m.Size())
	return m
}

// hungarianCostBase keeps every cost positive for the weights below
const hungarianCostBase = 111.0

func hungarianCost(src, dst *tree.Node, m *MappingStore, maxTreeSize int) float64 {
	return hungarianCostBase - subtreeSimilarity(src, dst, m, maxTreeSize)
}

// subtreeSimilarity weighs the parents' common mapped descendants, the
// position in parent and the absolute post-order position
func subtreeSimilarity(src, dst *tree.Node, m *MappingStore, maxTreeSize int) float64 {
	var jaccard float64
	if sp, dp := src.Parent(), dst.Parent(); sp != nil && dp != nil {
		jaccard = JaccardSimilarity(sp, dp, m)
	}

	posSrc, maxSrcPos := 0, 1
	if !src.IsRoot() {
		posSrc, maxSrcPos = src.ChildPosition(), len(src.Parent().Children)
	}
	posDst, maxDstPos := 0, 1
	if !dst.IsRoot() {
		posDst, maxDstPos = dst.ChildPosition(), len(dst.Parent().Children)
	}
	pos := 1 - float64(abs(posSrc-posDst))/float64(max(maxSrcPos, maxDstPos))
	po := 1 - float64(abs(src.Position()-dst.Position()))/float64(maxTreeSize)

	return 100*jaccard + 10*pos + po
}

func impact(c clique) int {
	deepest := 0
	for _, s := range c.srcs {
		deepest = max(deepest, s.Depth())
	}
	for _, d := range c.dsts {
		deepest = max(deepest, d.Depth())
	}
	return deepest
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
