package service

import (
	"strconv"
	"time"

	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/internal/matcher"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface.
// Command line values override file values only for the flags recorded in
// the flag tracker.
type ConfigurationLoaderImpl struct {
	flagTracker *config.FlagTracker
}

// NewConfigurationLoader creates a configuration loader. A nil tracker
// means no flag was given.
func NewConfigurationLoader(tracker *config.FlagTracker) *ConfigurationLoaderImpl {
	if tracker == nil {
		tracker = config.NewFlagTracker()
	}
	return &ConfigurationLoaderImpl{flagTracker: tracker}
}

// LoadConfig loads configuration from path, or from the nearest
// configuration file above target
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*domain.DiffSettings, error) {
	cfg, err := config.LoadConfig(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return SettingsFromConfig(cfg), nil
}

// MergeConfig applies the explicitly set command line values over base.
// Matcher options are merged key by key.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.DiffSettings, override *domain.DiffSettings) *domain.DiffSettings {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	ft := c.flagTracker
	merged := *base

	merged.Pipeline = ft.MergeString(base.Pipeline, override.Pipeline, "pipeline")
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	for k, v := range base.Options {
		merged.Options[k] = v
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	if ft.WasSet("format") {
		merged.OutputFormat = override.OutputFormat
	}
	if ft.WasSet("no-color") || ft.WasSet("color") {
		merged.Color = override.Color
	}
	merged.Simplify = ft.MergeBool(base.Simplify, override.Simplify, "simplify")
	merged.Verify = ft.MergeBool(base.Verify, override.Verify, "verify")

	merged.IncludePatterns = ft.MergeStringSlice(base.IncludePatterns, override.IncludePatterns, "include")
	merged.ExcludePatterns = ft.MergeStringSlice(base.ExcludePatterns, override.ExcludePatterns, "exclude")
	merged.Concurrency = ft.MergeInt(base.Concurrency, override.Concurrency, "concurrency")
	if ft.WasSet("timeout") {
		merged.Timeout = override.Timeout
	}

	return &merged
}

// SettingsFromConfig converts a loaded configuration to request settings.
// Matcher fields left unset in the file do not appear in Options, so the
// pipeline defaults apply to them.
func SettingsFromConfig(cfg *config.Config) *domain.DiffSettings {
	return &domain.DiffSettings{
		Pipeline:        cfg.Matcher.Pipeline,
		Options:         matcherOptionValues(cfg.Matcher),
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		Color:           domain.ColorMode(cfg.Output.Color),
		Simplify:        cfg.Output.Simplify,
		Verify:          cfg.Output.Verify,
		IncludePatterns: cfg.DirDiff.IncludePatterns,
		ExcludePatterns: cfg.DirDiff.ExcludePatterns,
		Concurrency:     cfg.DirDiff.Concurrency,
		Timeout:         time.Duration(cfg.DirDiff.TimeoutSeconds) * time.Second,
	}
}

func matcherOptionValues(m config.MatcherConfig) map[string]string {
	out := make(map[string]string)
	if m.SubtreePriorityMetric != "" {
		out[matcher.KeySubtreePriorityMetric] = m.SubtreePriorityMetric
	}
	if m.MinSubtreePriority != nil {
		out[matcher.KeyMinSubtreePriority] = strconv.Itoa(*m.MinSubtreePriority)
	}
	if m.BottomUpSimilarityThreshold != nil {
		out[matcher.KeyBottomUpSimilarityThreshold] = strconv.FormatFloat(*m.BottomUpSimilarityThreshold, 'g', -1, 64)
	}
	if m.BottomUpAdaptiveThreshold != nil {
		out[matcher.KeyBottomUpAdaptiveThreshold] = strconv.FormatBool(*m.BottomUpAdaptiveThreshold)
	}
	if m.BottomUpSizeThresholdForOptimalRecovery != nil {
		out[matcher.KeyOptimalSizeThreshold] = strconv.Itoa(*m.BottomUpSizeThresholdForOptimalRecovery)
	}
	if m.SubtreeMinSize != nil {
		out[matcher.KeySubtreeMinSize] = strconv.Itoa(*m.SubtreeMinSize)
	}
	if m.Similarity != "" {
		out[matcher.KeySimilarity] = m.Similarity
	}
	if m.OptimalExactOnly != nil {
		out[matcher.KeyOptimalExactOnly] = strconv.FormatBool(*m.OptimalExactOnly)
	}
	return out
}
