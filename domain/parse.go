package domain

import "context"

// TreeNode is the serialized form of a node. It matches the JSON tree file
// format, so a dumped tree can be diffed again.
type TreeNode struct {
	Type     string      `json:"type" yaml:"type"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Pos      int         `json:"pos" yaml:"pos"`
	Length   int         `json:"length" yaml:"length"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ParseResponse describes a generated tree
type ParseResponse struct {
	Path      string
	Generator string
	Language  string
	Nodes     int
	Height    int
	Types     int
	Root      *TreeNode
}

// ParseService generates trees from files
type ParseService interface {
	Parse(ctx context.Context, path string) (*ParseResponse, error)
}
