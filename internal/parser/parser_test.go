package parser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/internal/tree"
)

func findType(root *tree.Node, typ string) *tree.Node {
	for _, n := range root.PreOrder() {
		if n.Type.Name() == typ {
			return n
		}
	}
	return nil
}

func TestTreeSitterGenerator(t *testing.T) {
	tests := []struct {
		name     string
		language string
		source   string
		rootType string
		// a node type expected somewhere in the tree with its leaf label
		leafType  string
		leafLabel string
	}{
		{
			name:      "python function",
			language:  "python",
			source:    "def add(a, b):\n    return a + b\n",
			rootType:  "module",
			leafType:  "identifier",
			leafLabel: "add",
		},
		{
			name:      "go function",
			language:  "go",
			source:    "package main\n\nfunc add(a, b int) int { return a + b }\n",
			rootType:  "source_file",
			leafType:  "package_identifier",
			leafLabel: "main",
		},
		{
			name:      "javascript function",
			language:  "javascript",
			source:    "function add(a, b) { return a + b; }\n",
			rootType:  "program",
			leafType:  "identifier",
			leafLabel: "add",
		},
		{
			name:      "java class",
			language:  "java",
			source:    "class Calc { int add(int a, int b) { return a + b; } }\n",
			rootType:  "program",
			leafType:  "identifier",
			leafLabel: "Calc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewTreeSitterGenerator(tt.language)
			require.NoError(t, err)

			types := tree.NewTypeSet()
			c, err := gen.Generate(context.Background(), []byte(tt.source), types)
			require.NoError(t, err)
			require.NotNil(t, c.Root)

			assert.Equal(t, tt.rootType, c.Root.Type.Name())
			assert.Same(t, types, c.Types)
			assert.Equal(t, tt.language, c.Metadata[MetaLanguage])
			assert.Equal(t, c.Root.Size(), len(c.Root.PreOrder()), "metrics are computed")
			assert.NoError(t, tree.Validate(c.Root))

			leaf := findType(c.Root, tt.leafType)
			require.NotNil(t, leaf)
			assert.True(t, leaf.IsLeaf())
			assert.Equal(t, tt.leafLabel, leaf.Label)
			assert.Equal(t, tt.leafLabel, tt.source[leaf.Pos:leaf.EndPos()])

			line, ok := leaf.GetMetadata(MetaLine)
			require.True(t, ok)
			assert.GreaterOrEqual(t, line.(int), 1)

			for _, n := range c.Root.PreOrder() {
				if !n.IsLeaf() {
					assert.False(t, n.HasLabel(), "inner node %s carries a label", n)
				}
			}
		})
	}
}

func TestTreeSitterGeneratorSyntaxError(t *testing.T) {
	gen, err := NewTreeSitterGenerator("python")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), []byte("def broken(:\n    pass\n"), tree.NewTypeSet())
	assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
}

func TestTreeSitterGeneratorSharedTypes(t *testing.T) {
	gen, err := NewTreeSitterGenerator("go")
	require.NoError(t, err)

	types := tree.NewTypeSet()
	src, err := gen.Generate(context.Background(), []byte("package a\n\nvar x = 1\n"), types)
	require.NoError(t, err)
	dst, err := gen.Generate(context.Background(), []byte("package a\n\nvar x = 1\n"), types)
	require.NoError(t, err)

	assert.Same(t, src.Root.Type, dst.Root.Type)
	assert.True(t, tree.Isomorphic(src.Root, dst.Root))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "main.go", want: "tree-sitter-go"},
		{path: "app.PY", want: "tree-sitter-python"},
		{path: "index.mjs", want: "tree-sitter-javascript"},
		{path: "Main.java", want: "tree-sitter-java"},
		{path: "tree.json", want: "json-tree"},
		{path: "tree.yml", want: "yaml-tree"},
		{path: "README.md", wantErr: true},
		{path: "Makefile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			gen, err := ForPath(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
				assert.False(t, IsSupported(tt.path))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, gen.Name())
			assert.True(t, IsSupported(tt.path))
		})
	}

	_, err := ForLanguage("cobol")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
	assert.Contains(t, Extensions(), ".cjs")
}

func TestTreeFileGenerator(t *testing.T) {
	tests := []struct {
		name    string
		format  TreeFormat
		source  string
		size    int
		wantErr bool
		invalid bool
	}{
		{
			name:   "json",
			format: FormatJSON,
			source: `{"type": "Call", "pos": 0, "length": 10, "children": [
				{"type": "Id", "label": "f", "pos": 0, "length": 1},
				{"type": "Int", "label": "1", "pos": 2, "length": 1}
			]}`,
			size: 3,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			source: "type: Call\nlength: 10\nchildren:\n  - type: Id\n    label: f\n    length: 1\n",
			size:   2,
		},
		{
			name:    "unknown json field",
			format:  FormatJSON,
			source:  `{"type": "Call", "kind": "x"}`,
			wantErr: true,
		},
		{
			name:    "unknown yaml field",
			format:  FormatYAML,
			source:  "type: Call\nkind: x\n",
			wantErr: true,
		},
		{
			name:    "missing type",
			format:  FormatJSON,
			source:  `{"label": "x"}`,
			wantErr: true,
		},
		{
			name:    "empty",
			format:  FormatJSON,
			source:  "",
			wantErr: true,
		},
		{
			name:    "labeled inner node",
			format:  FormatJSON,
			source:  `{"type": "Call", "label": "f", "length": 5, "children": [{"type": "Id", "length": 1}]}`,
			wantErr: true,
			invalid: true,
		},
		{
			name:    "child outside parent",
			format:  FormatJSON,
			source:  `{"type": "Call", "length": 2, "children": [{"type": "Id", "pos": 1, "length": 5}]}`,
			wantErr: true,
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewTreeFileGenerator(tt.format)
			c, err := gen.Generate(context.Background(), []byte(tt.source), tree.NewTypeSet())
			if tt.wantErr {
				require.Error(t, err)
				var verr *tree.ValidationError
				assert.Equal(t, tt.invalid, errors.As(err, &verr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, c.Root.Size())
			assert.Equal(t, string(tt.format)+"-tree", c.Metadata[MetaGenerator])
		})
	}
}

func TestEncodeTreeRoundTrip(t *testing.T) {
	b := tree.NewBuilder(nil)
	root := b.Spanned("Call", "", 0, 10,
		b.Spanned("Id", "f", 0, 1),
		b.Spanned("Args", "", 2, 8, b.Spanned("Int", "1", 3, 1)),
	)
	tree.Refresh(root)

	for _, format := range []TreeFormat{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, EncodeTree(&buf, root, format))

			c, err := NewTreeFileGenerator(format).Generate(context.Background(), buf.Bytes(), b.Types)
			require.NoError(t, err)
			assert.True(t, tree.Isomorphic(root, c.Root))
			assert.Equal(t, 3, c.Root.Children[1].Children[0].Pos)
		})
	}
}

func TestGenerateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTreeFileGenerator(FormatJSON).Generate(ctx, []byte(`{"type": "a"}`), tree.NewTypeSet())
	assert.ErrorIs(t, err, context.Canceled)
}
