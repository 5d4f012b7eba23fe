package matcher

import (
	"github.com/ludo-technologies/treediff/internal/tree"
)

// zsTree numbers the nodes of a tree in post-order starting at 1 and keeps
// the left-most leaf descendant of every node and the key roots
type zsTree struct {
	nodes    []*tree.Node // nodes[i] is the i-th node in post-order
	lld      []int        // lld[i] is the post-order id of the left-most leaf of node i
	keyRoots []int        // ascending
}

func newZsTree(root *tree.Node) *zsTree {
	post := root.PostOrder()
	n := len(post)
	t := &zsTree{
		nodes: make([]*tree.Node, n+1),
		lld:   make([]int, n+1),
	}

	ids := make(map[*tree.Node]int, n)
	for i, node := range post {
		id := i + 1
		ids[node] = id
		t.nodes[id] = node
		t.lld[id] = ids[firstLeaf(node)]
	}

	// a key root is the highest node sharing its left-most leaf
	visited := make([]bool, n+1)
	for i := n; i >= 1; i-- {
		if !visited[t.lld[i]] {
			visited[t.lld[i]] = true
			t.keyRoots = append(t.keyRoots, i)
		}
	}
	for i, j := 0, len(t.keyRoots)-1; i < j; i, j = i+1, j-1 {
		t.keyRoots[i], t.keyRoots[j] = t.keyRoots[j], t.keyRoots[i]
	}
	return t
}

func (t *zsTree) size() int {
	return len(t.nodes) - 1
}

func firstLeaf(n *tree.Node) *tree.Node {
	for !n.IsLeaf() {
		n = n.Children[0]
	}
	return n
}

// Alignment is the result of the optimal aligner
type Alignment struct {
	Distance float64
	// Pairs holds the same-type node pairs aligned by the optimal edit
	// script, in backtracking order
	Pairs []Mapping
	// Exact holds the subset of Pairs with identical labels
	Exact []Mapping
}

type zhangShasha struct {
	src, dst   *zsTree
	cost       CostModel
	treeDist   [][]float64
	forestDist [][]float64
}

// ZhangShasha computes the ordered tree edit distance between the subtrees
// rooted at src and dst and the node pairs of an optimal alignment
func ZhangShasha(src, dst *tree.Node, cost CostModel) *Alignment {
	if cost == nil {
		cost = NewUnitCostModel()
	}
	zs := &zhangShasha{
		src:  newZsTree(src),
		dst:  newZsTree(dst),
		cost: cost,
	}
	n, m := zs.src.size(), zs.dst.size()
	zs.treeDist = newMatrix(n+1, m+1)
	zs.forestDist = newMatrix(n+1, m+1)

	for _, i := range zs.src.keyRoots {
		for _, j := range zs.dst.keyRoots {
			zs.computeForestDist(i, j)
		}
	}

	a := &Alignment{Distance: zs.treeDist[n][m]}
	zs.backtrack(a)
	return a
}

func newMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func (zs *zhangShasha) computeForestDist(i, j int) {
	fd, td := zs.forestDist, zs.treeDist
	li, lj := zs.src.lld[i], zs.dst.lld[j]

	fd[li-1][lj-1] = 0
	for di := li; di <= i; di++ {
		costDel := zs.cost.Delete(zs.src.nodes[di])
		fd[di][lj-1] = fd[di-1][lj-1] + costDel
		for dj := lj; dj <= j; dj++ {
			costIns := zs.cost.Insert(zs.dst.nodes[dj])
			fd[li-1][dj] = fd[li-1][dj-1] + costIns

			if zs.src.lld[di] == li && zs.dst.lld[dj] == lj {
				costRen := zs.cost.Rename(zs.src.nodes[di], zs.dst.nodes[dj])
				fd[di][dj] = min(fd[di-1][dj]+costDel, fd[di][dj-1]+costIns, fd[di-1][dj-1]+costRen)
				td[di][dj] = fd[di][dj]
			} else {
				fd[di][dj] = min(fd[di-1][dj]+costDel, fd[di][dj-1]+costIns,
					fd[zs.src.lld[di]-1][zs.dst.lld[dj]-1]+td[di][dj])
			}
		}
	}
}

func (zs *zhangShasha) backtrack(a *Alignment) {
	type pair struct{ row, col int }
	stack := []pair{{zs.src.size(), zs.dst.size()}}
	rootPair := true

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lastRow, lastCol := top.row, top.col

		// the forest table of the root pair is still in place
		if !rootPair {
			zs.computeForestDist(lastRow, lastCol)
		}
		rootPair = false

		firstRow := zs.src.lld[lastRow] - 1
		firstCol := zs.dst.lld[lastCol] - 1
		row, col := lastRow, lastCol
		fd := zs.forestDist

		for row > firstRow || col > firstCol {
			switch {
			case row > firstRow && fd[row-1][col]+zs.cost.Delete(zs.src.nodes[row]) == fd[row][col]:
				row--
			case col > firstCol && fd[row][col-1]+zs.cost.Insert(zs.dst.nodes[col]) == fd[row][col]:
				col--
			default:
				if zs.src.lld[row]-1 == firstRow && zs.dst.lld[col]-1 == firstCol {
					s, d := zs.src.nodes[row], zs.dst.nodes[col]
					if s.HasSameType(d) {
						a.Pairs = append(a.Pairs, Mapping{Src: s, Dst: d})
						if s.Label == d.Label {
							a.Exact = append(a.Exact, Mapping{Src: s, Dst: d})
						}
					}
					row--
					col--
				} else {
					stack = append(stack, pair{row, col})
					row = zs.src.lld[row] - 1
					col = zs.dst.lld[col] - 1
				}
			}
		}
	}
}

// OptimalMatcher maps the nodes aligned by the Zhang-Shasha tree edit
// distance. It is exact but cubic, so it only suits small trees.
type OptimalMatcher struct {
	opts Options
	cost CostModel
}

// NewOptimalMatcher creates the matcher with the unit cost model
func NewOptimalMatcher(opts Options) *OptimalMatcher {
	return &OptimalMatcher{opts: opts, cost: NewUnitCostModel()}
}

// Name implements Stage
func (o *OptimalMatcher) Name() string { return "optimal" }

// Match implements Stage
func (o *OptimalMatcher) Match(src, dst *tree.Node, m *MappingStore) *MappingStore {
	o.addAligned(src, dst, m)
	return m
}

// addAligned merges the aligned pairs of (src, dst) that do not conflict
// with existing mappings
func (o *OptimalMatcher) addAligned(src, dst *tree.Node, m *MappingStore) {
	a := ZhangShasha(src, dst, o.cost)
	pairs := a.Pairs
	if o.opts.OptimalExactOnly {
		pairs = a.Exact
	}
	for _, p := range pairs {
		if m.IsMappingAllowed(p.Src, p.Dst) {
			_ = m.Add(p.Src, p.Dst)
		}
	}
}
