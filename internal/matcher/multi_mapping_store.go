package matcher

import (
	"sort"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// MultiMappingStore is a many-to-many candidate relation used before
// mappings are committed
type MultiMappingStore struct {
	srcToDsts map[*tree.Node]map[*tree.Node]struct{}
	dstToSrcs map[*tree.Node]map[*tree.Node]struct{}
}

// NewMultiMappingStore creates an empty relation
func NewMultiMappingStore() *MultiMappingStore {
	return &MultiMappingStore{
		srcToDsts: make(map[*tree.Node]map[*tree.Node]struct{}),
		dstToSrcs: make(map[*tree.Node]map[*tree.Node]struct{}),
	}
}

// Link adds the candidate pair (src, dst)
func (m *MultiMappingStore) Link(src, dst *tree.Node) {
	if m.srcToDsts[src] == nil {
		m.srcToDsts[src] = make(map[*tree.Node]struct{})
	}
	m.srcToDsts[src][dst] = struct{}{}
	if m.dstToSrcs[dst] == nil {
		m.dstToSrcs[dst] = make(map[*tree.Node]struct{})
	}
	m.dstToSrcs[dst][src] = struct{}{}
}

// Unlink removes the candidate pair (src, dst)
func (m *MultiMappingStore) Unlink(src, dst *tree.Node) {
	if dsts, ok := m.srcToDsts[src]; ok {
		delete(dsts, dst)
		if len(dsts) == 0 {
			delete(m.srcToDsts, src)
		}
	}
	if srcs, ok := m.dstToSrcs[dst]; ok {
		delete(srcs, src)
		if len(srcs) == 0 {
			delete(m.dstToSrcs, dst)
		}
	}
}

// Has reports whether (src, dst) is a candidate pair
func (m *MultiMappingStore) Has(src, dst *tree.Node) bool {
	_, ok := m.srcToDsts[src][dst]
	return ok
}

// HasSrc reports whether src has at least one candidate
func (m *MultiMappingStore) HasSrc(src *tree.Node) bool {
	return len(m.srcToDsts[src]) > 0
}

// HasDst reports whether dst has at least one candidate
func (m *MultiMappingStore) HasDst(dst *tree.Node) bool {
	return len(m.dstToSrcs[dst]) > 0
}

// Srcs returns every src with a candidate in post-order position order
func (m *MultiMappingStore) Srcs() []*tree.Node {
	return sortedKeys(m.srcToDsts)
}

// Dsts returns every dst with a candidate in post-order position order
func (m *MultiMappingStore) Dsts() []*tree.Node {
	return sortedKeys(m.dstToSrcs)
}

// DstsOf returns the candidates of src in post-order position order
func (m *MultiMappingStore) DstsOf(src *tree.Node) []*tree.Node {
	return sortedSet(m.srcToDsts[src])
}

// SrcsOf returns the candidates of dst in post-order position order
func (m *MultiMappingStore) SrcsOf(dst *tree.Node) []*tree.Node {
	return sortedSet(m.dstToSrcs[dst])
}

// IsSrcUnique reports whether src has exactly one candidate which in turn
// has src as its only candidate
func (m *MultiMappingStore) IsSrcUnique(src *tree.Node) bool {
	dsts := m.srcToDsts[src]
	if len(dsts) != 1 {
		return false
	}
	for d := range dsts {
		return len(m.dstToSrcs[d]) == 1
	}
	return false
}

// IsDstUnique reports whether dst has exactly one candidate which in turn
// has dst as its only candidate
func (m *MultiMappingStore) IsDstUnique(dst *tree.Node) bool {
	srcs := m.dstToSrcs[dst]
	if len(srcs) != 1 {
		return false
	}
	for s := range srcs {
		return len(m.srcToDsts[s]) == 1
	}
	return false
}

// Size returns the number of candidate pairs
func (m *MultiMappingStore) Size() int {
	n := 0
	for _, dsts := range m.srcToDsts {
		n += len(dsts)
	}
	return n
}

func sortedKeys(in map[*tree.Node]map[*tree.Node]struct{}) []*tree.Node {
	out := make([]*tree.Node, 0, len(in))
	for n := range in {
		out = append(out, n)
	}
	sortByPosition(out)
	return out
}

func sortedSet(in map[*tree.Node]struct{}) []*tree.Node {
	out := make([]*tree.Node, 0, len(in))
	for n := range in {
		out = append(out, n)
	}
	sortByPosition(out)
	return out
}

func sortByPosition(nodes []*tree.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Position() < nodes[j].Position()
	})
}
