package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ludo-technologies/treediff/internal/tree"
)

var (
	// ErrTypeMismatch is returned when linking nodes of different types
	ErrTypeMismatch = errors.New("mapped nodes must have the same type")
	// ErrAlreadyMapped is returned when a node is already part of a mapping
	ErrAlreadyMapped = errors.New("node is already mapped")
)

// Mapping is a pair of corresponding nodes
type Mapping struct {
	Src *tree.Node
	Dst *tree.Node
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s -> %s", m.Src, m.Dst)
}

// MappingStore is a bijective partial mapping between a src and a dst tree
type MappingStore struct {
	srcToDst map[*tree.Node]*tree.Node
	dstToSrc map[*tree.Node]*tree.Node
}

// NewMappingStore creates an empty store
func NewMappingStore() *MappingStore {
	return &MappingStore{
		srcToDst: make(map[*tree.Node]*tree.Node),
		dstToSrc: make(map[*tree.Node]*tree.Node),
	}
}

// Size returns the number of mappings
func (s *MappingStore) Size() int {
	return len(s.srcToDst)
}

// Add links src and dst
func (s *MappingStore) Add(src, dst *tree.Node) error {
	if !src.HasSameType(dst) {
		return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, src, dst)
	}
	if s.IsSrcMapped(src) {
		return fmt.Errorf("%w: %s", ErrAlreadyMapped, src)
	}
	if s.IsDstMapped(dst) {
		return fmt.Errorf("%w: %s", ErrAlreadyMapped, dst)
	}
	s.srcToDst[src] = dst
	s.dstToSrc[dst] = src
	return nil
}

// AddRecursively links src and dst and every pair of their descendants in
// pre-order. Both subtrees must be isomorphic. Every pair is checked before
// any is added, so a failing call leaves the store unchanged.
func (s *MappingStore) AddRecursively(src, dst *tree.Node) error {
	srcs := src.PreOrder()
	dsts := dst.PreOrder()
	if len(srcs) != len(dsts) {
		return fmt.Errorf("subtrees of %s and %s differ in size", src, dst)
	}
	for i := range srcs {
		if !srcs[i].HasSameType(dsts[i]) {
			return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, srcs[i], dsts[i])
		}
		if s.IsSrcMapped(srcs[i]) {
			return fmt.Errorf("%w: %s", ErrAlreadyMapped, srcs[i])
		}
		if s.IsDstMapped(dsts[i]) {
			return fmt.Errorf("%w: %s", ErrAlreadyMapped, dsts[i])
		}
	}
	for i := range srcs {
		s.srcToDst[srcs[i]] = dsts[i]
		s.dstToSrc[dsts[i]] = srcs[i]
	}
	return nil
}

// Remove unlinks src and dst
func (s *MappingStore) Remove(src, dst *tree.Node) {
	if s.srcToDst[src] != dst {
		return
	}
	delete(s.srcToDst, src)
	delete(s.dstToSrc, dst)
}

// Dst returns the node mapped to src, nil if none
func (s *MappingStore) Dst(src *tree.Node) *tree.Node {
	return s.srcToDst[src]
}

// Src returns the node mapped to dst, nil if none
func (s *MappingStore) Src(dst *tree.Node) *tree.Node {
	return s.dstToSrc[dst]
}

// IsSrcMapped reports whether src takes part in a mapping
func (s *MappingStore) IsSrcMapped(src *tree.Node) bool {
	_, ok := s.srcToDst[src]
	return ok
}

// IsDstMapped reports whether dst takes part in a mapping
func (s *MappingStore) IsDstMapped(dst *tree.Node) bool {
	_, ok := s.dstToSrc[dst]
	return ok
}

// Has reports whether src is mapped to dst
func (s *MappingStore) Has(src, dst *tree.Node) bool {
	d, ok := s.srcToDst[src]
	return ok && d == dst
}

// IsMappingAllowed reports whether src and dst share their type and are
// both unmapped
func (s *MappingStore) IsMappingAllowed(src, dst *tree.Node) bool {
	return src.HasSameType(dst) && !s.IsSrcMapped(src) && !s.IsDstMapped(dst)
}

// AreBothUnmapped reports whether no node of either subtree is mapped
func (s *MappingStore) AreBothUnmapped(src, dst *tree.Node) bool {
	return s.AreSrcsUnmapped(src) && s.AreDstsUnmapped(dst)
}

// AreSrcsUnmapped reports whether no node of the src subtree is mapped
func (s *MappingStore) AreSrcsUnmapped(src *tree.Node) bool {
	for _, n := range src.PreOrder() {
		if s.IsSrcMapped(n) {
			return false
		}
	}
	return true
}

// AreDstsUnmapped reports whether no node of the dst subtree is mapped
func (s *MappingStore) AreDstsUnmapped(dst *tree.Node) bool {
	for _, n := range dst.PreOrder() {
		if s.IsDstMapped(n) {
			return false
		}
	}
	return true
}

// HasUnmappedSrcChildren reports whether some child of src is unmapped
func (s *MappingStore) HasUnmappedSrcChildren(src *tree.Node) bool {
	for _, c := range src.Children {
		if !s.IsSrcMapped(c) {
			return true
		}
	}
	return false
}

// HasUnmappedDstChildren reports whether some child of dst is unmapped
func (s *MappingStore) HasUnmappedDstChildren(dst *tree.Node) bool {
	for _, c := range dst.Children {
		if !s.IsDstMapped(c) {
			return true
		}
	}
	return false
}

// FirstMappedSrcParent returns the nearest mapped ancestor of src
func (s *MappingStore) FirstMappedSrcParent(src *tree.Node) *tree.Node {
	for p := src.Parent(); p != nil; p = p.Parent() {
		if s.IsSrcMapped(p) {
			return p
		}
	}
	return nil
}

// FirstMappedDstParent returns the nearest mapped ancestor of dst
func (s *MappingStore) FirstMappedDstParent(dst *tree.Node) *tree.Node {
	for p := dst.Parent(); p != nil; p = p.Parent() {
		if s.IsDstMapped(p) {
			return p
		}
	}
	return nil
}

// Mappings returns every mapping ordered by src post-order position, then
// dst post-order position
func (s *MappingStore) Mappings() []Mapping {
	out := make([]Mapping, 0, len(s.srcToDst))
	for src, dst := range s.srcToDst {
		out = append(out, Mapping{Src: src, Dst: dst})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src.Position() != out[j].Src.Position() {
			return out[i].Src.Position() < out[j].Src.Position()
		}
		return out[i].Dst.Position() < out[j].Dst.Position()
	})
	return out
}

// Copy returns an independent store with the same mappings
func (s *MappingStore) Copy() *MappingStore {
	c := NewMappingStore()
	for src, dst := range s.srcToDst {
		c.srcToDst[src] = dst
		c.dstToSrc[dst] = src
	}
	return c
}
