package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/internal/matcher"
	"github.com/ludo-technologies/treediff/internal/tree"
)

func rootsOnly(t *testing.T, src, dst *tree.Node) *matcher.MappingStore {
	t.Helper()
	m := matcher.NewMappingStore()
	require.NoError(t, m.Add(src, dst))
	return m
}

func TestSimplify(t *testing.T) {
	b := tree.NewBuilder(nil)
	subtree := func() *tree.Node {
		return b.Node("A", "", b.Node("b", "1"), b.Node("c", "2"))
	}

	tests := []struct {
		name string
		src  *tree.Node
		dst  *tree.Node
		want []Kind
	}{
		{
			name: "deleted subtree",
			src:  b.Node("R", "", subtree()),
			dst:  b.Node("R", ""),
			want: []Kind{DeleteTree},
		},
		{
			name: "inserted subtree",
			src:  b.Node("R", ""),
			dst:  b.Node("R", "", subtree()),
			want: []Kind{InsertTree},
		},
		{
			name: "single leaves stay plain",
			src:  b.Node("R", "", b.Node("x", "")),
			dst:  b.Node("R", "", b.Node("y", "")),
			want: []Kind{Insert, Delete},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree.Refresh(tt.src)
			tree.Refresh(tt.dst)
			raw := Generate(tt.src, tt.dst, rootsOnly(t, tt.src, tt.dst))
			simplified := Simplify(raw)

			var kinds []Kind
			for _, a := range simplified.Actions() {
				kinds = append(kinds, a.Kind)
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestSimplifyKeepsPartialDeletes(t *testing.T) {
	b := tree.NewBuilder(nil)
	src := b.Node("R", "", b.Node("A", "", b.Node("b", ""), b.Node("c", "")))
	dst := b.Node("R", "", b.Node("c", ""))
	tree.Refresh(src)
	tree.Refresh(dst)

	m := rootsOnly(t, src, dst)
	require.NoError(t, m.Add(src.Children[0].Children[1], dst.Children[0]))

	raw := Generate(src, dst, m)
	simplified := Simplify(raw)
	assert.Equal(t, raw.Counts(), simplified.Counts())
	assert.Equal(t, 1, simplified.Counts()[Move])
	assert.Equal(t, 2, simplified.Counts()[Delete])
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Insert, "insert-node"},
		{Delete, "delete-node"},
		{Update, "update-node"},
		{Move, "move-tree"},
		{InsertTree, "insert-tree"},
		{DeleteTree, "delete-tree"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Name())
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestActionString(t *testing.T) {
	b := tree.NewBuilder(nil)
	n := b.Spanned("Id", "old", 3, 3)
	p := b.Spanned("Call", "", 0, 10, n)

	assert.Equal(t, `update-node Id: old [3,6] from "old" to "new"`,
		Action{Kind: Update, Node: n, Value: "new"}.String())
	assert.Equal(t, "move-tree Id: old [3,6] to Call [0,10] at 0",
		Action{Kind: Move, Node: n, Parent: p}.String())
	assert.Equal(t, "insert-node Call [0,10] to root at 0",
		Action{Kind: Insert, Node: p}.String())
	assert.Equal(t, "delete-node Id: old [3,6]",
		Action{Kind: Delete, Node: n}.String())
}
