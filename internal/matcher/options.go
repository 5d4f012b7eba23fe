package matcher

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// PriorityMetric selects the priority used by the subtree queues
type PriorityMetric string

const (
	PriorityHeight PriorityMetric = "height"
	PrioritySize   PriorityMetric = "size"
)

// SimilarityMetric selects the bottom-up similarity coefficient
type SimilarityMetric string

const (
	SimilarityDice     SimilarityMetric = "dice"
	SimilarityJaccard  SimilarityMetric = "jaccard"
	SimilarityChawathe SimilarityMetric = "chawathe"
	SimilarityOverlap  SimilarityMetric = "overlap"
)

// Default option values
const (
	DefaultMinSubtreePriority      = 1
	DefaultSimilarityThreshold     = 0.5
	DefaultOptimalSizeThreshold    = 1000
	DefaultHybridOptimalSizeThresh = 20
	DefaultSubtreeMinSize          = 1
)

// Option keys accepted by ParseOptions
const (
	KeySubtreePriorityMetric       = "subtree_priority_metric"
	KeyMinSubtreePriority          = "min_subtree_priority"
	KeyBottomUpSimilarityThreshold = "bottom_up_similarity_threshold"
	KeyBottomUpAdaptiveThreshold   = "bottom_up_adaptive_threshold"
	KeyOptimalSizeThreshold        = "bottom_up_size_threshold_for_optimal_recovery"
	KeySubtreeMinSize              = "subtree_min_size"
	KeySimilarity                  = "similarity"
	KeyOptimalExactOnly            = "optimal_exact_only"
)

// Options configure the matcher stages
type Options struct {
	SubtreePriorityMetric PriorityMetric

	// MinSubtreePriority counts priority levels above a leaf, so the default
	// of 1 keeps leaves out of the subtree phase whatever the metric
	MinSubtreePriority int

	// BottomUpSimilarityThreshold is the minimum similarity for a bottom-up
	// mapping. Ignored when BottomUpAdaptiveThreshold is set.
	BottomUpSimilarityThreshold float64

	// BottomUpAdaptiveThreshold replaces the fixed threshold with one that
	// decays with the combined size of the candidate pair
	BottomUpAdaptiveThreshold bool

	// BottomUpSizeThresholdForOptimalRecovery bounds the subtree size below
	// which last-chance recovery runs the optimal aligner.
	BottomUpSizeThresholdForOptimalRecovery int

	SubtreeMinSize   int
	Similarity       SimilarityMetric
	OptimalExactOnly bool

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns the options of the classic pipeline
func DefaultOptions() Options {
	return Options{
		SubtreePriorityMetric:                   PriorityHeight,
		MinSubtreePriority:                      DefaultMinSubtreePriority,
		BottomUpSimilarityThreshold:             DefaultSimilarityThreshold,
		BottomUpSizeThresholdForOptimalRecovery: DefaultOptimalSizeThreshold,
		SubtreeMinSize:                          DefaultSubtreeMinSize,
		Similarity:                              SimilarityDice,
	}
}

// DefaultOptionsFor returns the default options of a named pipeline
func DefaultOptionsFor(pipeline string) Options {
	opts := DefaultOptions()
	switch pipeline {
	case PipelineHybrid:
		opts.BottomUpAdaptiveThreshold = true
		opts.BottomUpSizeThresholdForOptimalRecovery = DefaultHybridOptimalSizeThresh
		opts.Similarity = SimilarityChawathe
	case PipelineSimple:
		opts.Similarity = SimilarityOverlap
	}
	return opts
}

// Validate rejects out-of-range values
func (o Options) Validate() error {
	switch o.SubtreePriorityMetric {
	case PriorityHeight, PrioritySize:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q",
			KeySubtreePriorityMetric, PriorityHeight, PrioritySize, o.SubtreePriorityMetric)
	}
	if o.MinSubtreePriority < 0 {
		return fmt.Errorf("%s must be non-negative, got %d", KeyMinSubtreePriority, o.MinSubtreePriority)
	}
	if o.BottomUpSimilarityThreshold < 0.0 || o.BottomUpSimilarityThreshold > 1.0 {
		return fmt.Errorf("%s must be between 0.0 and 1.0, got %f",
			KeyBottomUpSimilarityThreshold, o.BottomUpSimilarityThreshold)
	}
	if o.BottomUpSizeThresholdForOptimalRecovery < 0 {
		return fmt.Errorf("%s must be non-negative, got %d",
			KeyOptimalSizeThreshold, o.BottomUpSizeThresholdForOptimalRecovery)
	}
	if o.SubtreeMinSize < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeySubtreeMinSize, o.SubtreeMinSize)
	}
	if _, err := SimilarityFunc(o.Similarity); err != nil {
		return err
	}
	return nil
}

// ParseOptions applies string key/value pairs on top of base. Unknown keys
// and malformed or out-of-range values are rejected.
func ParseOptions(base Options, values map[string]string) (Options, error) {
	opts := base
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := strings.TrimSpace(values[key])
		var err error
		switch key {
		case KeySubtreePriorityMetric:
			opts.SubtreePriorityMetric = PriorityMetric(strings.ToLower(raw))
		case KeyMinSubtreePriority:
			opts.MinSubtreePriority, err = strconv.Atoi(raw)
		case KeyBottomUpSimilarityThreshold:
			opts.BottomUpSimilarityThreshold, err = strconv.ParseFloat(raw, 64)
		case KeyBottomUpAdaptiveThreshold:
			opts.BottomUpAdaptiveThreshold, err = strconv.ParseBool(raw)
		case KeyOptimalSizeThreshold:
			opts.BottomUpSizeThresholdForOptimalRecovery, err = strconv.Atoi(raw)
		case KeySubtreeMinSize:
			opts.SubtreeMinSize, err = strconv.Atoi(raw)
		case KeySimilarity:
			opts.Similarity = SimilarityMetric(strings.ToLower(raw))
		case KeyOptimalExactOnly:
			opts.OptimalExactOnly, err = strconv.ParseBool(raw)
		default:
			return base, fmt.Errorf("unknown matcher option %q", key)
		}
		if err != nil {
			return base, fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	if err := opts.Validate(); err != nil {
		return base, err
	}
	return opts, nil
}

func (o Options) priority() func(*tree.Node) int {
	if o.SubtreePriorityMetric == PrioritySize {
		return (*tree.Node).Size
	}
	return (*tree.Node).Height
}

// priorityFloor is the lowest priority a queued subtree may have. A leaf
// has height 0 and size 1.
func (o Options) priorityFloor() int {
	if o.SubtreePriorityMetric == PrioritySize {
		return o.MinSubtreePriority + 1
	}
	return o.MinSubtreePriority
}

func (o Options) debug(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}
