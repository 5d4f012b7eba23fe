package matcher

import (
	"github.com/ludo-technologies/treediff/internal/tree"
)

// scenarioTrees returns a pair where dst inserts a Modifier, swaps the two
// statements of the Block, renames Id "delete" and drops Id "obsolete"
func scenarioTrees(b *tree.Builder) (src, dst *tree.Node) {
	src = b.Node("Function", "",
		b.Node("If", "",
			b.Node("GreaterThan", "",
				b.Node("Call", "",
					b.Node("Empty", ""),
					b.Node("Id", "delete"),
					b.Node("Id", "value"),
				),
				b.Node("Integer", "1"),
			),
			b.Node("Block", "",
				b.Node("Return", "", b.Node("Boolean", "true")),
				b.Node("Expr", "", b.Node("Id", "x")),
			),
		),
		b.Node("Id", "obsolete"),
	)
	dst = b.Node("Function", "",
		b.Node("Modifier", "public"),
		b.Node("If", "",
			b.Node("GreaterThan", "",
				b.Node("Call", "",
					b.Node("Empty", ""),
					b.Node("Id", "remove"),
					b.Node("Id", "value"),
				),
				b.Node("Integer", "1"),
			),
			b.Node("Block", "",
				b.Node("Expr", "", b.Node("Id", "x")),
				b.Node("Return", "", b.Node("Boolean", "true")),
			),
		),
	)
	tree.Refresh(src)
	tree.Refresh(dst)
	return src, dst
}

// find returns the first node in pre-order with the given type and label
func find(root *tree.Node, typ, label string) *tree.Node {
	for _, n := range root.PreOrder() {
		if n.Type.Name() == typ && n.Label == label {
			return n
		}
	}
	return nil
}
