package matcher

import (
	"github.com/ludo-technologies/treediff/internal/tree"
)

// lastChanceMode selects how a freshly mapped pair is refined
type lastChanceMode int

const (
	// optimal recovery below the size threshold, heuristic above
	lastChanceSized lastChanceMode = iota
	// three-stage heuristic whatever the size
	lastChanceHeuristic
)

// bottomUp holds what the bottom-up variants share: the walk over src,
// candidate collection, scoring and last-chance recovery
type bottomUp struct {
	name       string
	opts       Options
	similarity SimilarityFn
	mode       lastChanceMode
	// recoverMapped runs last-chance on already mapped nodes that still
	// have unmapped children on both sides
	recoverMapped bool
	optimal       *OptimalMatcher
}

func newBottomUp(name string, opts Options, mode lastChanceMode, recoverMapped bool) *bottomUp {
	sim, err := SimilarityFunc(opts.Similarity)
	if err != nil {
		sim = DiceSimilarity
	}
	return &bottomUp{
		name:          name,
		opts:          opts,
		similarity:    sim,
		mode:          mode,
		recoverMapped: recoverMapped,
		optimal:       NewOptimalMatcher(opts),
	}
}

// Name implements Stage
func (b *bottomUp) Name() string { return b.name }

// Match implements Stage
func (b *bottomUp) Match(src, dst *tree.Node, m *MappingStore) *MappingStore {
	before := m.Size()
	for _, t := range src.PostOrder() {
		switch {
		case t == src:
			if m.IsMappingAllowed(t, dst) {
				_ = m.Add(t, dst)
			}
			if m.Has(t, dst) {
				b.lastChance(t, dst, m)
			}
		case !m.IsSrcMapped(t) && !t.IsLeaf():
			best := b.bestCandidate(t, dst, m)
			if best != nil {
				_ = m.Add(t, best)
				b.lastChance(t, best, m)
			}
		case b.recoverMapped && m.IsSrcMapped(t) && m.HasUnmappedSrcChildren(t) &&
			m.HasUnmappedDstChildren(m.Dst(t)):
			b.lastChance(t, m.Dst(t), m)
		}
	}
	b.opts.debug("bottom-up matching done", "stage", b.name, "added", m.Size()-before, "mappings", m.Size())
	return m
}

func (b *bottomUp) bestCandidate(t, dstRoot *tree.Node, m *MappingStore) *tree.Node {
	var best *tree.Node
	maxSim := -1.0
	for _, c := range dstCandidates(t, m) {
		sim := b.similarity(t, c, m)
		threshold := b.opts.BottomUpSimilarityThreshold
		if b.opts.BottomUpAdaptiveThreshold {
			threshold = AdaptiveThreshold(t, c)
		}
		if sim > maxSim && sim >= threshold {
			maxSim = sim
			best = c
		}
	}
	return best
}

// dstCandidates collects the unmapped non-root dst ancestors with the type
// of src that sit above the counterparts of the mapped descendants of src
func dstCandidates(src *tree.Node, m *MappingStore) []*tree.Node {
	var candidates []*tree.Node
	visited := make(map[*tree.Node]struct{})
	for _, c := range src.Descendants() {
		seed := m.Dst(c)
		if seed == nil {
			continue
		}
		for p := seed.Parent(); p != nil; p = p.Parent() {
			if _, ok := visited[p]; ok {
				break
			}
			visited[p] = struct{}{}
			if p.Type == src.Type && !m.IsDstMapped(p) && !p.IsRoot() {
				candidates = append(candidates, p)
			}
		}
	}
	return candidates
}

func (b *bottomUp) lastChance(src, dst *tree.Node, m *MappingStore) {
	small := max(src.Size(), dst.Size()) < b.opts.BottomUpSizeThresholdForOptimalRecovery
	switch b.mode {
	case lastChanceSized:
		if small {
			b.optimal.addAligned(src, dst, m)
		} else {
			b.heuristicLastChance(src, dst, m, src.Size()+dst.Size()+1)
		}
	case lastChanceHeuristic:
		b.heuristicLastChance(src, dst, m, src.Size()+dst.Size()+1)
	}
}

// heuristicLastChance aligns the children of an already mapped pair. bound
// is the combined size of the caller's pair; recursion only proceeds on
// strictly smaller pairs.
func (b *bottomUp) heuristicLastChance(src, dst *tree.Node, m *MappingStore, bound int) {
	if src.Size()+dst.Size() >= bound {
		return
	}
	b.lcsMatching(src, dst, m, lcsIsomorphic)
	b.lcsMatching(src, dst, m, lcsStructural)

	switch {
	case src.IsRoot() && dst.IsRoot():
		b.histogramMatching(src, dst, m)
	case !src.IsRoot() && !dst.IsRoot() && src.Parent().Type == dst.Parent().Type:
		b.histogramMatching(src, dst, m)
	}
}

func (b *bottomUp) lcsMatching(src, dst *tree.Node, m *MappingStore, lcs func(a, b []*tree.Node) []IndexPair) {
	srcChildren := unmappedSrcChildren(src, m)
	dstChildren := unmappedDstChildren(dst, m)
	for _, p := range lcs(srcChildren, dstChildren) {
		s, d := srcChildren[p.Left], dstChildren[p.Right]
		if m.AreBothUnmapped(s, d) {
			_ = m.AddRecursively(s, d)
		}
	}
}

func (b *bottomUp) histogramMatching(src, dst *tree.Node, m *MappingStore) {
	srcHistogram := groupByType(unmappedSrcChildren(src, m))
	dstHistogram := groupByType(unmappedDstChildren(dst, m))

	// walk src children in order so recursion is deterministic
	for _, s := range unmappedSrcChildren(src, m) {
		srcs, dsts := srcHistogram[s.Type], dstHistogram[s.Type]
		if len(srcs) != 1 || len(dsts) != 1 {
			continue
		}
		d := dsts[0]
		if m.IsMappingAllowed(s, d) {
			_ = m.Add(s, d)
			b.lastChanceRecursive(s, d, m, src.Size()+dst.Size())
		}
	}
}

// lastChanceRecursive is lastChance for pairs found by the histogram,
// carrying the size bound of the parent pair
func (b *bottomUp) lastChanceRecursive(src, dst *tree.Node, m *MappingStore, bound int) {
	if b.mode != lastChanceHeuristic && max(src.Size(), dst.Size()) < b.opts.BottomUpSizeThresholdForOptimalRecovery {
		b.optimal.addAligned(src, dst, m)
		return
	}
	b.heuristicLastChance(src, dst, m, bound)
}

func unmappedSrcChildren(n *tree.Node, m *MappingStore) []*tree.Node {
	var out []*tree.Node
	for _, c := range n.Children {
		if !m.IsSrcMapped(c) {
			out = append(out, c)
		}
	}
	return out
}

func unmappedDstChildren(n *tree.Node, m *MappingStore) []*tree.Node {
	var out []*tree.Node
	for _, c := range n.Children {
		if !m.IsDstMapped(c) {
			out = append(out, c)
		}
	}
	return out
}

func groupByType(nodes []*tree.Node) map[*tree.Type][]*tree.Node {
	out := make(map[*tree.Type][]*tree.Node)
	for _, n := range nodes {
		out[n.Type] = append(out[n.Type], n)
	}
	return out
}

// GreedyBottomUpMatcher maps inner nodes with dice similarity against a
// fixed threshold. Small subtrees are recovered optimally, large ones with
// the heuristic.
type GreedyBottomUpMatcher struct {
	*bottomUp
}

// NewGreedyBottomUpMatcher creates the classic bottom-up matcher
func NewGreedyBottomUpMatcher(opts Options) *GreedyBottomUpMatcher {
	return &GreedyBottomUpMatcher{newBottomUp("greedy-bottom-up", opts, lastChanceSized, true)}
}

// SimpleBottomUpMatcher never runs the optimal aligner and recovers with
// the child-sequence heuristic only
type SimpleBottomUpMatcher struct {
	*bottomUp
}

// NewSimpleBottomUpMatcher creates the simple bottom-up matcher
func NewSimpleBottomUpMatcher(opts Options) *SimpleBottomUpMatcher {
	return &SimpleBottomUpMatcher{newBottomUp("simple-bottom-up", opts, lastChanceHeuristic, true)}
}

// HybridBottomUpMatcher scores candidates with chawathe similarity against
// the size-adaptive threshold and recovers like the greedy matcher
type HybridBottomUpMatcher struct {
	*bottomUp
}

// NewHybridBottomUpMatcher creates the hybrid bottom-up matcher
func NewHybridBottomUpMatcher(opts Options) *HybridBottomUpMatcher {
	return &HybridBottomUpMatcher{newBottomUp("hybrid-bottom-up", opts, lastChanceSized, true)}
}
