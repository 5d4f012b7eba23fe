package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// TreeFormat is a serialization of the tree file format
type TreeFormat string

const (
	FormatJSON TreeFormat = "json"
	FormatYAML TreeFormat = "yaml"
)

// TreeNode is the serialized form of a node:
//
//	{"type": "...", "label": "...", "pos": 0, "length": 0, "children": [...]}
type TreeNode struct {
	Type     string      `json:"type" yaml:"type"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Pos      int         `json:"pos" yaml:"pos"`
	Length   int         `json:"length" yaml:"length"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export converts a tree to its serialized form
func Export(n *tree.Node) *TreeNode {
	out := &TreeNode{
		Type:   n.Type.Name(),
		Label:  n.Label,
		Pos:    n.Pos,
		Length: n.Length,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, Export(c))
	}
	return out
}

// Import builds a tree from its serialized form
func Import(tn *TreeNode, types *tree.TypeSet) (*tree.Node, error) {
	if tn == nil {
		return nil, errors.New("empty tree")
	}
	if tn.Type == "" {
		return nil, fmt.Errorf("node at offset %d has no type", tn.Pos)
	}
	n := tree.NewNode(types.Get(tn.Type), tn.Label, tn.Pos, tn.Length)
	for _, c := range tn.Children {
		child, err := Import(c, types)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// TreeFileGenerator loads trees serialized in the tree file format
type TreeFileGenerator struct {
	format TreeFormat
}

// NewTreeFileGenerator creates a loader for format
func NewTreeFileGenerator(format TreeFormat) *TreeFileGenerator {
	return &TreeFileGenerator{format: format}
}

// Name returns the generator name
func (g *TreeFileGenerator) Name() string {
	return string(g.format) + "-tree"
}

// Generate decodes source strictly: unknown fields are rejected
func (g *TreeFileGenerator) Generate(ctx context.Context, source []byte, types *tree.TypeSet) (*tree.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tn TreeNode
	switch g.format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(source))
		dec.KnownFields(true)
		if err := dec.Decode(&tn); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty tree file")
			}
			return nil, fmt.Errorf("failed to decode YAML tree: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(source))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tn); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty tree file")
			}
			return nil, fmt.Errorf("failed to decode JSON tree: %w", err)
		}
	}

	root, err := Import(&tn, types)
	if err != nil {
		return nil, err
	}
	return finish(root, types, map[string]string{
		MetaGenerator: g.Name(),
	})
}

// EncodeTree writes the serialized form of root
func EncodeTree(w io.Writer, root *tree.Node, format TreeFormat) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Export(root)); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Export(root))
	}
}
