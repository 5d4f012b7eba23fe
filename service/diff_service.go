package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/actions"
	"github.com/ludo-technologies/treediff/internal/matcher"
	"github.com/ludo-technologies/treediff/internal/parser"
	"github.com/ludo-technologies/treediff/internal/tree"
	"github.com/ludo-technologies/treediff/internal/version"
)

// DiffServiceImpl implements the DiffService interface
type DiffServiceImpl struct {
	logger *slog.Logger
}

// NewDiffService creates a new diff service. A nil logger disables logging.
func NewDiffService(logger *slog.Logger) *DiffServiceImpl {
	return &DiffServiceImpl{logger: logger}
}

// Diff reads both files and diffs them
func (s *DiffServiceImpl) Diff(ctx context.Context, req domain.DiffRequest) (*domain.DiffResponse, error) {
	src, err := os.ReadFile(req.SrcPath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(req.SrcPath, err)
	}
	dst, err := os.ReadFile(req.DstPath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(req.DstPath, err)
	}
	return s.DiffSources(ctx, req.SrcPath, src, req.DstPath, dst, req.DiffSettings)
}

// DiffSources generates both trees with one type set, matches them with the
// configured pipeline and derives the edit script
func (s *DiffServiceImpl) DiffSources(ctx context.Context, srcPath string, src []byte, dstPath string, dst []byte, settings domain.DiffSettings) (*domain.DiffResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen, err := generatorFor(srcPath, dstPath)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.buildPipeline(settings)
	if err != nil {
		return nil, err
	}

	types := tree.NewTypeSet()
	srcCtx, err := gen.Generate(ctx, src, types)
	if err != nil {
		return nil, domain.NewParseError(srcPath, err)
	}
	dstCtx, err := gen.Generate(ctx, dst, types)
	if err != nil {
		return nil, domain.NewParseError(dstPath, err)
	}

	start := time.Now()
	mappings := pipeline.Match(srcCtx.Root, dstCtx.Root)
	script := actions.Generate(srcCtx.Root, dstCtx.Root, mappings)
	s.debug("diff computed",
		"src", srcPath, "dst", dstPath,
		"generator", gen.Name(), "pipeline", pipeline.Name(),
		"src_nodes", srcCtx.Root.Size(), "dst_nodes", dstCtx.Root.Size(),
		"mappings", mappings.Size(), "actions", script.Len(),
		"elapsed", time.Since(start))

	verified := false
	if settings.Verify {
		if err := verifyScript(srcCtx.Root, dstCtx.Root, script); err != nil {
			return nil, err
		}
		verified = true
	}

	reported := script
	if settings.Simplify {
		reported = actions.Simplify(script)
	}

	return &domain.DiffResponse{
		SrcPath:     srcPath,
		DstPath:     dstPath,
		Generator:   gen.Name(),
		Pipeline:    pipeline.Name(),
		Stages:      pipeline.Stages(),
		Actions:     actionInfos(reported),
		Summary:     summarize(srcCtx.Root, dstCtx.Root, mappings, reported),
		Verified:    verified,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}, nil
}

func (s *DiffServiceImpl) buildPipeline(settings domain.DiffSettings) (*matcher.Pipeline, error) {
	name := settings.Pipeline
	if name == "" {
		name = matcher.PipelineClassic
	}
	opts, err := matcher.ParseOptions(matcher.DefaultOptionsFor(name), settings.Options)
	if err != nil {
		return nil, domain.NewConfigError("invalid matcher options", err)
	}
	opts.Logger = s.logger
	pipeline, err := matcher.NewPipeline(name, opts)
	if err != nil {
		return nil, domain.NewConfigError("invalid pipeline", err)
	}
	return pipeline, nil
}

func (s *DiffServiceImpl) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// generatorFor picks the generator of srcPath and checks that dstPath is
// handled by the same one
func generatorFor(srcPath, dstPath string) (parser.Generator, error) {
	gen, err := parser.ForPath(srcPath)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot diff %s", srcPath), err)
	}
	dstGen, err := parser.ForPath(dstPath)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot diff %s", dstPath), err)
	}
	if gen.Name() != dstGen.Name() {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("%s and %s need different tree generators (%s, %s)", srcPath, dstPath, gen.Name(), dstGen.Name()), nil)
	}
	return gen, nil
}

// verifyScript replays script on src and checks the result against dst
func verifyScript(src, dst *tree.Node, script *actions.EditScript) error {
	out, err := actions.Apply(src, script)
	if err != nil {
		return domain.NewDiffError("script replay failed", err)
	}
	if !tree.Isomorphic(out, dst) {
		return domain.NewDiffError("script replay does not rebuild the destination tree", nil)
	}
	return nil
}

func summarize(src, dst *tree.Node, mappings *matcher.MappingStore, script *actions.EditScript) domain.DiffSummary {
	counts := script.Counts()
	return domain.DiffSummary{
		SrcNodes:    src.Size(),
		DstNodes:    dst.Size(),
		Mapped:      mappings.Size(),
		Inserts:     counts[actions.Insert],
		Deletes:     counts[actions.Delete],
		Updates:     counts[actions.Update],
		Moves:       counts[actions.Move],
		InsertTrees: counts[actions.InsertTree],
		DeleteTrees: counts[actions.DeleteTree],
		Total:       script.Len(),
	}
}

func actionInfos(script *actions.EditScript) []domain.ActionInfo {
	infos := make([]domain.ActionInfo, 0, script.Len())
	for _, a := range script.Actions() {
		info := domain.ActionInfo{
			Kind: a.Kind.Name(),
			Node: nodeRef(a.Node),
		}
		switch a.Kind {
		case actions.Insert, actions.InsertTree, actions.Move:
			if a.Parent != nil {
				parent := nodeRef(a.Parent)
				info.Parent = &parent
			}
			pos := a.Position
			info.Position = &pos
		case actions.Update:
			info.Value = a.Value
		}
		infos = append(infos, info)
	}
	return infos
}

func nodeRef(n *tree.Node) domain.NodeRef {
	ref := domain.NodeRef{
		Type:  n.Type.Name(),
		Label: n.Label,
		Pos:   n.Pos,
		End:   n.EndPos(),
	}
	if line, ok := n.GetMetadata(parser.MetaLine); ok {
		if l, ok := line.(int); ok {
			ref.Line = l
		}
	}
	return ref
}
