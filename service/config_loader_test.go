package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/internal/matcher"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	threshold := 0.4
	cfg.Matcher.BottomUpSimilarityThreshold = &threshold
	cfg.Matcher.Similarity = "jaccard"
	cfg.DirDiff.TimeoutSeconds = 30

	s := SettingsFromConfig(cfg)
	assert.Equal(t, matcher.PipelineClassic, s.Pipeline)
	assert.Equal(t, map[string]string{
		matcher.KeyBottomUpSimilarityThreshold: "0.4",
		matcher.KeySimilarity:                  "jaccard",
	}, s.Options)
	assert.Equal(t, domain.OutputFormatText, s.OutputFormat)
	assert.Equal(t, domain.ColorAuto, s.Color)
	assert.Equal(t, 30*time.Second, s.Timeout)

	opts, err := matcher.ParseOptions(matcher.DefaultOptionsFor(s.Pipeline), s.Options)
	require.NoError(t, err)
	assert.Equal(t, 0.4, opts.BottomUpSimilarityThreshold)
}

func TestConfigurationLoaderMerge(t *testing.T) {
	base := &domain.DiffSettings{
		Pipeline:        matcher.PipelineClassic,
		Options:         map[string]string{matcher.KeySimilarity: "dice", matcher.KeySubtreeMinSize: "2"},
		OutputFormat:    domain.OutputFormatText,
		Color:           domain.ColorAuto,
		ExcludePatterns: []string{"vendor/**"},
		Concurrency:     4,
		Timeout:         time.Minute,
	}
	override := &domain.DiffSettings{
		Pipeline:     matcher.PipelineOptimal,
		Options:      map[string]string{matcher.KeySubtreeMinSize: "3"},
		OutputFormat: domain.OutputFormatJSON,
		Color:        domain.ColorNever,
		Verify:       true,
	}

	tests := []struct {
		name  string
		flags []string
		check func(t *testing.T, got *domain.DiffSettings)
	}{
		{
			name: "no flags keeps file values",
			check: func(t *testing.T, got *domain.DiffSettings) {
				assert.Equal(t, matcher.PipelineClassic, got.Pipeline)
				assert.Equal(t, domain.OutputFormatText, got.OutputFormat)
				assert.False(t, got.Verify)
				assert.Equal(t, 4, got.Concurrency)
			},
		},
		{
			name:  "set flags win",
			flags: []string{"pipeline", "format", "no-color", "verify", "concurrency"},
			check: func(t *testing.T, got *domain.DiffSettings) {
				assert.Equal(t, matcher.PipelineOptimal, got.Pipeline)
				assert.Equal(t, domain.OutputFormatJSON, got.OutputFormat)
				assert.Equal(t, domain.ColorNever, got.Color)
				assert.True(t, got.Verify)
				assert.Equal(t, 0, got.Concurrency)
				assert.Equal(t, []string{"vendor/**"}, got.ExcludePatterns)
				assert.Equal(t, time.Minute, got.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := config.NewFlagTracker()
			for _, f := range tt.flags {
				tracker.Set(f)
			}
			got := NewConfigurationLoader(tracker).MergeConfig(base, override)
			assert.Equal(t, map[string]string{matcher.KeySimilarity: "dice", matcher.KeySubtreeMinSize: "3"}, got.Options)
			tt.check(t, got)
		})
	}

	loader := NewConfigurationLoader(nil)
	assert.Same(t, override, loader.MergeConfig(nil, override))
	assert.Same(t, base, loader.MergeConfig(base, nil))
}

func TestConfigurationLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".treediff.toml"),
		[]byte("[matcher]\npipeline = \"simple\"\n\n[output]\nformat = \"lisp\"\n"), 0o644))

	s, err := NewConfigurationLoader(nil).LoadConfig("", filepath.Join(dir, "tree.json"))
	require.NoError(t, err)
	assert.Equal(t, matcher.PipelineSimple, s.Pipeline)
	assert.Equal(t, domain.OutputFormatLisp, s.OutputFormat)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("[matcher]\nspeed = 1\n"), 0o644))
	_, err = NewConfigurationLoader(nil).LoadConfig(filepath.Join(dir, "bad.toml"), dir)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}
