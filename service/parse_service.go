package service

import (
	"context"
	"os"

	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/parser"
	"github.com/ludo-technologies/treediff/internal/tree"
)

// ParseServiceImpl implements the ParseService interface
type ParseServiceImpl struct{}

// NewParseService creates a new parse service
func NewParseService() *ParseServiceImpl {
	return &ParseServiceImpl{}
}

// Parse generates the tree of a file
func (s *ParseServiceImpl) Parse(ctx context.Context, path string) (*domain.ParseResponse, error) {
	gen, err := parser.ForPath(path)
	if err != nil {
		return nil, domain.NewInvalidInputError("cannot parse "+path, err)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	c, err := gen.Generate(ctx, source, tree.NewTypeSet())
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}

	return &domain.ParseResponse{
		Path:      path,
		Generator: gen.Name(),
		Language:  c.Metadata[parser.MetaLanguage],
		Nodes:     c.Root.Size(),
		Height:    c.Root.Height(),
		Types:     c.Types.Len(),
		Root:      toTreeNode(c.Root),
	}, nil
}

func toTreeNode(n *tree.Node) *domain.TreeNode {
	out := &domain.TreeNode{
		Type:   n.Type.Name(),
		Label:  n.Label,
		Pos:    n.Pos,
		Length: n.Length,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toTreeNode(c))
	}
	return out
}
