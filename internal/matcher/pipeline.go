package matcher

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// Named pipelines
const (
	PipelineClassic          = "classic"
	PipelineSimple           = "simple"
	PipelineHybrid           = "hybrid"
	PipelineClassicHungarian = "classic-hungarian"
	PipelineOptimal          = "optimal"
)

// ErrUnknownPipeline is returned for a pipeline name that is not registered
var ErrUnknownPipeline = errors.New("unknown pipeline")

// Stage refines the mappings between two trees
type Stage interface {
	Name() string
	Match(src, dst *tree.Node, m *MappingStore) *MappingStore
}

// Pipeline runs its stages in order over a shared mapping store
type Pipeline struct {
	name   string
	stages []Stage
	opts   Options
}

var pipelines = map[string]func(Options) []Stage{
	PipelineClassic: func(o Options) []Stage {
		return []Stage{NewGreedySubtreeMatcher(o), NewGreedyBottomUpMatcher(o)}
	},
	PipelineSimple: func(o Options) []Stage {
		return []Stage{NewGreedySubtreeMatcher(o), NewSimpleBottomUpMatcher(o)}
	},
	PipelineHybrid: func(o Options) []Stage {
		return []Stage{NewGreedySubtreeMatcher(o), NewHybridBottomUpMatcher(o)}
	},
	PipelineClassicHungarian: func(o Options) []Stage {
		return []Stage{NewHungarianSubtreeMatcher(o), NewGreedyBottomUpMatcher(o)}
	},
	PipelineOptimal: func(o Options) []Stage {
		return []Stage{NewOptimalMatcher(o)}
	},
}

// Pipelines returns the registered pipeline names
func Pipelines() []string {
	names := make([]string, 0, len(pipelines))
	for name := range pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPipeline validates opts and builds the named pipeline
func NewPipeline(name string, opts Options) (*Pipeline, error) {
	build, ok := pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, expected one of %v", ErrUnknownPipeline, name, Pipelines())
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{name: name, stages: build(opts), opts: opts}, nil
}

// NewCustomPipeline composes arbitrary stages
func NewCustomPipeline(name string, opts Options, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, stages: stages, opts: opts}
}

// Name returns the pipeline name
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns the stage names in execution order
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Match runs every stage from an empty store
func (p *Pipeline) Match(src, dst *tree.Node) *MappingStore {
	return p.MatchFrom(src, dst, NewMappingStore())
}

// MatchFrom runs every stage starting from existing mappings
func (p *Pipeline) MatchFrom(src, dst *tree.Node, m *MappingStore) *MappingStore {
	for _, stage := range p.stages {
		start := time.Now()
		m = stage.Match(src, dst, m)
		p.opts.debug("stage finished", "pipeline", p.name, "stage", stage.Name(),
			"mappings", m.Size(), "elapsed", time.Since(start))
	}
	return m
}
