package actions

import (
	"github.com/ludo-technologies/treediff/internal/matcher"
	"github.com/ludo-technologies/treediff/internal/tree"
)

// Generate derives the edit script turning src into dst under mappings.
//
// The script is computed on a staging copy of src that is mutated as
// actions are emitted, following Chawathe et al. "Change detection in
// hierarchically structured information". src, dst and mappings are left
// untouched.
func Generate(src, dst *tree.Node, mappings *matcher.MappingStore) *EditScript {
	g := newGenerator(src, dst, mappings)
	g.run()
	return g.script
}

type generator struct {
	dst       *tree.Node
	stageRoot *tree.Node // virtual parent of the staging copy of src
	dstRoot   *tree.Node // virtual parent of dst, dst itself is not re-parented

	// staging nodes to the nodes actions refer to: original src nodes,
	// or dst nodes for inserted ones
	orig map[*tree.Node]*tree.Node
	// staging <-> dst
	mappings *matcher.MappingStore

	srcInOrder map[*tree.Node]struct{}
	dstInOrder map[*tree.Node]struct{}

	script *EditScript
}

func newGenerator(src, dst *tree.Node, m *matcher.MappingStore) *generator {
	g := &generator{
		dst:        dst,
		stageRoot:  &tree.Node{},
		dstRoot:    &tree.Node{Children: []*tree.Node{dst}},
		orig:       make(map[*tree.Node]*tree.Node),
		mappings:   matcher.NewMappingStore(),
		srcInOrder: make(map[*tree.Node]struct{}),
		dstInOrder: make(map[*tree.Node]struct{}),
		script:     NewEditScript(),
	}

	staging := src.DeepCopy()
	g.stageRoot.AddChild(staging)
	origNodes := src.PreOrder()
	stagingNodes := staging.PreOrder()
	toStaging := make(map[*tree.Node]*tree.Node, len(origNodes))
	for i, n := range origNodes {
		g.orig[stagingNodes[i]] = n
		toStaging[n] = stagingNodes[i]
	}

	for _, mp := range m.Mappings() {
		if s, ok := toStaging[mp.Src]; ok {
			_ = g.mappings.Add(s, mp.Dst)
		}
	}
	_ = g.mappings.Add(g.stageRoot, g.dstRoot)
	return g
}

func (g *generator) run() {
	for _, x := range g.dstRoot.BreadthFirst() {
		var w *tree.Node
		if x == g.dstRoot {
			w = g.stageRoot
		} else {
			z := g.mappings.Src(g.dstParent(x))
			if !g.mappings.IsDstMapped(x) {
				w = g.insert(x, z)
			} else {
				w = g.mappings.Src(x)
				g.updateAndMove(x, w, z)
			}
		}
		g.srcInOrder[w] = struct{}{}
		g.dstInOrder[x] = struct{}{}
		g.alignChildren(w, x)
	}

	for _, w := range g.stageRoot.PostOrder() {
		if !g.mappings.IsSrcMapped(w) {
			g.script.Add(Action{Kind: Delete, Node: g.orig[w]})
		}
	}
}

func (g *generator) insert(x, z *tree.Node) *tree.Node {
	k := g.findPos(x)
	w := tree.NewNode(x.Type, x.Label, x.Pos, x.Length)
	g.orig[w] = x
	g.script.Add(Action{Kind: Insert, Node: x, Parent: g.orig[z], Position: k})
	z.InsertChild(k, w)
	_ = g.mappings.Add(w, x)
	return w
}

func (g *generator) updateAndMove(x, w, z *tree.Node) {
	if w.Label != x.Label {
		g.script.Add(Action{Kind: Update, Node: g.orig[w], Value: x.Label})
		w.Label = x.Label
	}
	if v := w.Parent(); v != z {
		k := g.findPos(x)
		g.script.Add(Action{Kind: Move, Node: g.orig[w], Parent: g.orig[z], Position: k})
		v.RemoveChild(w)
		z.InsertChild(k, w)
	}
}

// alignChildren moves the children of w that are mapped to children of x
// but out of order, keeping a longest common subsequence in place
func (g *generator) alignChildren(w, x *tree.Node) {
	for _, c := range w.Children {
		delete(g.srcInOrder, c)
	}
	for _, c := range x.Children {
		delete(g.dstInOrder, c)
	}

	var s1, s2 []*tree.Node
	for _, c := range w.Children {
		if d := g.mappings.Dst(c); d != nil && g.dstParent(d) == x {
			s1 = append(s1, c)
		}
	}
	for _, c := range x.Children {
		if s := g.mappings.Src(c); s != nil && s.Parent() == w {
			s2 = append(s2, c)
		}
	}

	lcs := matcher.LongestCommonSubsequence(len(s1), len(s2), func(i, j int) bool {
		return g.mappings.Has(s1[i], s2[j])
	})
	inLCS := make(map[*tree.Node]struct{}, len(lcs))
	for _, p := range lcs {
		g.srcInOrder[s1[p.Left]] = struct{}{}
		g.dstInOrder[s2[p.Right]] = struct{}{}
		inLCS[s1[p.Left]] = struct{}{}
	}

	for _, b := range s2 {
		for _, a := range s1 {
			if _, ok := inLCS[a]; ok || !g.mappings.Has(a, b) {
				continue
			}
			k := g.findPos(b)
			oldK := a.ChildPosition()
			w.RemoveChild(a)
			if oldK < k {
				k--
			}
			w.InsertChild(k, a)
			g.script.Add(Action{Kind: Move, Node: g.orig[a], Parent: g.orig[w], Position: k})
			g.srcInOrder[a] = struct{}{}
			g.dstInOrder[b] = struct{}{}
		}
	}
}

// findPos returns the staging index right after the staging counterpart of
// the rightmost in-order left sibling of x, or 0 if there is none
func (g *generator) findPos(x *tree.Node) int {
	siblings := g.dstParent(x).Children
	for _, c := range siblings {
		if _, ok := g.dstInOrder[c]; ok {
			if c == x {
				return 0
			}
			break
		}
	}

	var v *tree.Node
	for _, c := range siblings {
		if c == x {
			break
		}
		if _, ok := g.dstInOrder[c]; ok {
			v = c
		}
	}
	if v == nil {
		return 0
	}
	return g.mappings.Src(v).ChildPosition() + 1
}

func (g *generator) dstParent(x *tree.Node) *tree.Node {
	if x == g.dst {
		return g.dstRoot
	}
	return x.Parent()
}
