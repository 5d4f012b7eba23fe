package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/internal/tree"
)

func TestZhangShashaDistance(t *testing.T) {
	b := tree.NewBuilder(nil)
	n := func(label string, children ...*tree.Node) *tree.Node {
		return b.Node("N", label, children...)
	}

	tests := []struct {
		name string
		src  *tree.Node
		dst  *tree.Node
		want float64
	}{
		{
			name: "identical",
			src:  n("f", n("a"), n("b")),
			dst:  n("f", n("a"), n("b")),
			want: 0,
		},
		{
			name: "relabel",
			src:  n("f", n("a")),
			dst:  n("f", n("b")),
			want: 1,
		},
		{
			name: "insert leaf",
			src:  n("f", n("a")),
			dst:  n("f", n("a"), n("b")),
			want: 1,
		},
		{
			name: "classic example",
			src:  n("f", n("d", n("a"), n("c", n("b"))), n("e")),
			dst:  n("f", n("c", n("d", n("a"), n("b"))), n("e")),
			want: 2,
		},
		{
			name: "single nodes",
			src:  n("a"),
			dst:  n("b"),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree.Refresh(tt.src)
			tree.Refresh(tt.dst)
			a := ZhangShasha(tt.src, tt.dst, nil)
			assert.Equal(t, tt.want, a.Distance)
		})
	}
}

func TestZhangShashaPairs(t *testing.T) {
	b := tree.NewBuilder(nil)

	t.Run("identical trees align every node", func(t *testing.T) {
		src, _ := scenarioTrees(b)
		dst := src.DeepCopy()
		tree.Refresh(dst)
		a := ZhangShasha(src, dst, NewUnitCostModel())
		assert.Zero(t, a.Distance)
		assert.Len(t, a.Pairs, src.Size())
		assert.Len(t, a.Exact, src.Size())
		for _, p := range a.Pairs {
			assert.Equal(t, p.Src.Position(), p.Dst.Position())
		}
	})

	t.Run("types never align across", func(t *testing.T) {
		src := b.Node("a", "", b.Node("b", ""))
		dst := b.Node("a", "", b.Node("c", ""))
		tree.Refresh(src)
		tree.Refresh(dst)
		a := ZhangShasha(src, dst, nil)
		assert.Equal(t, 2.0, a.Distance)
		require.Len(t, a.Pairs, 1)
		assert.Same(t, src, a.Pairs[0].Src)
	})

	t.Run("scenario", func(t *testing.T) {
		src, dst := scenarioTrees(b)
		a := ZhangShasha(src, dst, nil)
		// insert Modifier, delete Id obsolete, rename Id, and replace one
		// of the two swapped statements
		assert.Equal(t, 7.0, a.Distance)
		assert.Len(t, a.Pairs, 11)
		assert.Len(t, a.Exact, 10)
	})
}

func TestUnitCostModel(t *testing.T) {
	b := tree.NewBuilder(nil)
	c := NewUnitCostModel()
	x := b.Node("x", "1")

	assert.Equal(t, 1.0, c.Insert(x))
	assert.Equal(t, 1.0, c.Delete(x))
	assert.Equal(t, 0.0, c.Rename(x, b.Node("x", "1")))
	assert.Equal(t, 1.0, c.Rename(x, b.Node("x", "2")))
	assert.True(t, math.IsInf(c.Rename(x, b.Node("y", "1")), 1))
}

func TestOptimalMatcher(t *testing.T) {
	b := tree.NewBuilder(nil)
	src := b.Node("a", "", b.Node("b", "x"), b.Node("c", "k"))
	dst := b.Node("a", "", b.Node("b", "y"), b.Node("c", "k"))
	tree.Refresh(src)
	tree.Refresh(dst)

	tests := []struct {
		name      string
		exactOnly bool
		want      int
	}{
		{"type only", false, 3},
		{"exact only", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.OptimalExactOnly = tt.exactOnly
			m := NewOptimalMatcher(opts).Match(src, dst, NewMappingStore())
			assert.Equal(t, tt.want, m.Size())
			assert.True(t, m.Has(src, dst))
			assert.True(t, m.Has(src.Children[1], dst.Children[1]))
			assertValidMapping(t, m)
		})
	}
}

func TestOptimalMatcherKeepsExistingMappings(t *testing.T) {
	b := tree.NewBuilder(nil)
	src := b.Node("a", "", b.Node("b", "1"), b.Node("b", "2"))
	dst := b.Node("a", "", b.Node("b", "1"), b.Node("b", "2"))
	tree.Refresh(src)
	tree.Refresh(dst)

	m := NewMappingStore()
	require.NoError(t, m.Add(src.Children[0], dst.Children[1]))
	NewOptimalMatcher(DefaultOptions()).Match(src, dst, m)

	assert.True(t, m.Has(src.Children[0], dst.Children[1]))
	assert.True(t, m.Has(src, dst))
	assert.False(t, m.IsSrcMapped(src.Children[1]), "its aligned partner is taken")
	assertValidMapping(t, m)
}
