package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/treediff/internal/matcher"
)

// Default output and directory diff settings
const (
	DefaultFormat         = "text"
	DefaultColor          = "auto"
	DefaultTimeoutSeconds = 300
)

// Config represents the main configuration structure
type Config struct {
	// Matcher holds the pipeline selection and its tuning knobs
	Matcher MatcherConfig `mapstructure:"matcher" yaml:"matcher" toml:"matcher"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// DirDiff holds directory comparison configuration
	DirDiff DirDiffConfig `mapstructure:"dirdiff" yaml:"dirdiff" toml:"dirdiff"`
}

// MatcherConfig selects a pipeline and overrides its defaults. Nil or empty
// fields keep the default of the selected pipeline.
type MatcherConfig struct {
	Pipeline string `mapstructure:"pipeline" yaml:"pipeline" toml:"pipeline"`

	SubtreePriorityMetric string `mapstructure:"subtree_priority_metric" yaml:"subtree_priority_metric,omitempty" toml:"subtree_priority_metric"`
	MinSubtreePriority    *int   `mapstructure:"min_subtree_priority" yaml:"min_subtree_priority,omitempty" toml:"min_subtree_priority"`

	BottomUpSimilarityThreshold             *float64 `mapstructure:"bottom_up_similarity_threshold" yaml:"bottom_up_similarity_threshold,omitempty" toml:"bottom_up_similarity_threshold"`
	BottomUpAdaptiveThreshold               *bool    `mapstructure:"bottom_up_adaptive_threshold" yaml:"bottom_up_adaptive_threshold,omitempty" toml:"bottom_up_adaptive_threshold"`
	BottomUpSizeThresholdForOptimalRecovery *int     `mapstructure:"bottom_up_size_threshold_for_optimal_recovery" yaml:"bottom_up_size_threshold_for_optimal_recovery,omitempty" toml:"bottom_up_size_threshold_for_optimal_recovery"`

	SubtreeMinSize   *int   `mapstructure:"subtree_min_size" yaml:"subtree_min_size,omitempty" toml:"subtree_min_size"`
	Similarity       string `mapstructure:"similarity" yaml:"similarity,omitempty" toml:"similarity"`
	OptimalExactOnly *bool  `mapstructure:"optimal_exact_only" yaml:"optimal_exact_only,omitempty" toml:"optimal_exact_only"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, lisp
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// Color is auto, always or never
	Color string `mapstructure:"color" yaml:"color" toml:"color"`

	// Simplify folds whole-subtree inserts and deletes in reports
	Simplify bool `mapstructure:"simplify" yaml:"simplify" toml:"simplify"`

	// Verify replays every script and checks that it rebuilds dst
	Verify bool `mapstructure:"verify" yaml:"verify" toml:"verify"`
}

// DirDiffConfig holds configuration for directory comparison
type DirDiffConfig struct {
	// IncludePatterns are doublestar globs over slash-separated relative
	// paths. Empty includes every file.
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns are doublestar globs removing files from the comparison
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// Concurrency bounds the number of pairs diffed at once; 0 uses all CPUs
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" toml:"concurrency"`

	// TimeoutSeconds bounds a whole directory comparison; 0 disables it
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			Pipeline: matcher.PipelineClassic,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Color:  DefaultColor,
		},
		DirDiff: DirDiffConfig{
			IncludePatterns: []string{},
			ExcludePatterns: []string{},
			TimeoutSeconds:  DefaultTimeoutSeconds,
		},
	}
}

// ConfigFileNames are looked up, in order, in every directory from the
// start directory up to the filesystem root
var ConfigFileNames = []string{
	".treediff.toml",
	".treediff.yaml",
	".treediff.yml",
	".treediff.json",
}

// LoadConfig loads configuration from configPath, or from the nearest
// configuration file above startDir when configPath is empty. Defaults are
// returned when no file is found.
func LoadConfig(configPath, startDir string) (*Config, error) {
	if configPath == "" {
		configPath = FindConfig(startDir)
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		cfg, err = NewTomlConfigLoader().LoadFile(configPath)
	case ".yaml", ".yml", ".json":
		cfg, err = loadWithViper(configPath)
	default:
		return nil, fmt.Errorf("unsupported config file type %q", filepath.Ext(configPath))
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadWithViper(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := v.UnmarshalExact(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FindConfig walks up from startDir and returns the first configuration
// file found, or "" if there is none
func FindConfig(startDir string) string {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := c.MatcherOptions(); err != nil {
		return err
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"lisp": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, lisp", c.Output.Format)
	}

	validColors := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[c.Output.Color] {
		return fmt.Errorf("invalid output.color '%s', must be one of: auto, always, never", c.Output.Color)
	}

	if c.DirDiff.Concurrency < 0 {
		return fmt.Errorf("dirdiff.concurrency must be >= 0, got %d", c.DirDiff.Concurrency)
	}
	if c.DirDiff.TimeoutSeconds < 0 {
		return fmt.Errorf("dirdiff.timeout_seconds must be >= 0, got %d", c.DirDiff.TimeoutSeconds)
	}
	for _, p := range append(append([]string{}, c.DirDiff.IncludePatterns...), c.DirDiff.ExcludePatterns...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid dirdiff pattern %q", p)
		}
	}

	return nil
}

// MatcherOptions builds the options of the configured pipeline: its
// defaults, overridden by every field set in the matcher section
func (c *Config) MatcherOptions() (matcher.Options, error) {
	m := c.Matcher
	if !isKnownPipeline(m.Pipeline) {
		return matcher.Options{}, fmt.Errorf("invalid matcher.pipeline '%s', must be one of: %s",
			m.Pipeline, strings.Join(matcher.Pipelines(), ", "))
	}

	opts := matcher.DefaultOptionsFor(m.Pipeline)
	if m.SubtreePriorityMetric != "" {
		opts.SubtreePriorityMetric = matcher.PriorityMetric(m.SubtreePriorityMetric)
	}
	if m.MinSubtreePriority != nil {
		opts.MinSubtreePriority = *m.MinSubtreePriority
	}
	if m.BottomUpSimilarityThreshold != nil {
		opts.BottomUpSimilarityThreshold = *m.BottomUpSimilarityThreshold
	}
	if m.BottomUpAdaptiveThreshold != nil {
		opts.BottomUpAdaptiveThreshold = *m.BottomUpAdaptiveThreshold
	}
	if m.BottomUpSizeThresholdForOptimalRecovery != nil {
		opts.BottomUpSizeThresholdForOptimalRecovery = *m.BottomUpSizeThresholdForOptimalRecovery
	}
	if m.SubtreeMinSize != nil {
		opts.SubtreeMinSize = *m.SubtreeMinSize
	}
	if m.Similarity != "" {
		opts.Similarity = matcher.SimilarityMetric(m.Similarity)
	}
	if m.OptimalExactOnly != nil {
		opts.OptimalExactOnly = *m.OptimalExactOnly
	}

	if err := opts.Validate(); err != nil {
		return matcher.Options{}, fmt.Errorf("invalid matcher configuration: %w", err)
	}
	return opts, nil
}

func isKnownPipeline(name string) bool {
	for _, p := range matcher.Pipelines() {
		if p == name {
			return true
		}
	}
	return false
}
