// Package parser turns source artifacts into labeled ordered trees.
//
// Source files are parsed with tree-sitter; only named nodes are kept, leaves
// are labeled with their source text and spans are byte offsets. Serialized
// trees (.json, .yaml) can be loaded directly, which is how tests and other
// tools feed arbitrary trees to the matcher.
//
// Every generated tree is validated and its metrics are computed before it is
// returned.
//
// Basic usage:
//
//	gen, err := parser.ForPath("main.go")
//	if err != nil {
//	    // unsupported extension
//	}
//	ctx, err := gen.Generate(context.Background(), source, tree.NewTypeSet())
package parser
