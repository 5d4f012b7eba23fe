package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ludo-technologies/treediff/internal/matcher"
)

//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values rendered into the default config file
type DefaultConfigValues struct {
	Pipelines string
	Pipeline  string

	PriorityMetric       string
	MinSubtreePriority   int
	SimilarityThreshold  float64
	OptimalSizeThreshold int
	SubtreeMinSize       int
	Similarity           string

	Format         string
	Color          string
	TimeoutSeconds int
}

func newDefaultConfigValues() DefaultConfigValues {
	opts := matcher.DefaultOptions()
	return DefaultConfigValues{
		Pipelines:            strings.Join(matcher.Pipelines(), ", "),
		Pipeline:             matcher.PipelineClassic,
		PriorityMetric:       string(opts.SubtreePriorityMetric),
		MinSubtreePriority:   opts.MinSubtreePriority,
		SimilarityThreshold:  opts.BottomUpSimilarityThreshold,
		OptimalSizeThreshold: opts.BottomUpSizeThresholdForOptimalRecovery,
		SubtreeMinSize:       opts.SubtreeMinSize,
		Similarity:           string(opts.Similarity),
		Format:               DefaultFormat,
		Color:                DefaultColor,
		TimeoutSeconds:       DefaultTimeoutSeconds,
	}
}

// GenerateDefaultConfigTOML renders the default config template and
// returns the resulting TOML string
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}
	return buf.String(), nil
}
