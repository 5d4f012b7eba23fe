package domain

import (
	"context"
	"io"
	"time"
)

// ColorMode controls colored text output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Enabled resolves the mode for a destination that is or is not a terminal
func (m ColorMode) Enabled(terminal bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}

// DiffSettings holds the configurable part of a diff request. Values come
// from the configuration file and are overridden by explicit flags.
type DiffSettings struct {
	// Pipeline names the matcher pipeline
	Pipeline string

	// Options are matcher option overrides as key=value pairs, applied on
	// top of the pipeline defaults
	Options map[string]string

	OutputFormat OutputFormat
	Color        ColorMode

	// Simplify folds whole-subtree inserts and deletes in the report
	Simplify bool

	// Verify replays the script on src and checks the result against dst
	Verify bool

	// Directory comparison
	IncludePatterns []string
	ExcludePatterns []string
	Concurrency     int
	Timeout         time.Duration
}

// DiffRequest represents a request to diff two files
type DiffRequest struct {
	SrcPath string
	DstPath string

	// ConfigPath is an explicit configuration file; empty searches for one
	// above SrcPath
	ConfigPath string

	OutputWriter io.Writer
	OutputPath   string

	DiffSettings
}

// NodeRef identifies a node in a report
type NodeRef struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Pos   int    `json:"pos" yaml:"pos"`
	End   int    `json:"end" yaml:"end"`
	Line  int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// ActionInfo is the report form of one edit action
type ActionInfo struct {
	// Kind is the action name, e.g. "update-node"
	Kind string  `json:"kind" yaml:"kind"`
	Node NodeRef `json:"node" yaml:"node"`

	// Parent and Position are set for insertions and moves. A nil Parent
	// stands for the root position.
	Parent   *NodeRef `json:"parent,omitempty" yaml:"parent,omitempty"`
	Position *int     `json:"position,omitempty" yaml:"position,omitempty"`

	// Value is the new label of an update
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// DiffSummary represents aggregate statistics of a diff
type DiffSummary struct {
	SrcNodes int `json:"src_nodes" yaml:"src_nodes"`
	DstNodes int `json:"dst_nodes" yaml:"dst_nodes"`
	Mapped   int `json:"mapped" yaml:"mapped"`

	Inserts     int `json:"inserts" yaml:"inserts"`
	Deletes     int `json:"deletes" yaml:"deletes"`
	Updates     int `json:"updates" yaml:"updates"`
	Moves       int `json:"moves" yaml:"moves"`
	InsertTrees int `json:"insert_trees,omitempty" yaml:"insert_trees,omitempty"`
	DeleteTrees int `json:"delete_trees,omitempty" yaml:"delete_trees,omitempty"`
	Total       int `json:"total" yaml:"total"`
}

// DiffResponse represents the result of a diff
type DiffResponse struct {
	SrcPath   string   `json:"src_path" yaml:"src_path"`
	DstPath   string   `json:"dst_path" yaml:"dst_path"`
	Generator string   `json:"generator" yaml:"generator"`
	Pipeline  string   `json:"pipeline" yaml:"pipeline"`
	Stages    []string `json:"stages" yaml:"stages"`

	Actions []ActionInfo `json:"actions" yaml:"actions"`
	Summary DiffSummary  `json:"summary" yaml:"summary"`

	// Verified is true when the script was replayed and rebuilt dst
	Verified bool `json:"verified" yaml:"verified"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// DiffService defines the core business logic for diffing two files
type DiffService interface {
	// Diff parses both files, matches them and derives the edit script
	Diff(ctx context.Context, req DiffRequest) (*DiffResponse, error)

	// DiffSources diffs already loaded contents. The paths select the tree
	// generator and appear in the response.
	DiffSources(ctx context.Context, srcPath string, src []byte, dstPath string, dst []byte, settings DiffSettings) (*DiffResponse, error)
}

// OutputFormatter defines the interface for formatting results
type OutputFormatter interface {
	// SetColorMode selects colored text output
	SetColorMode(mode ColorMode)

	WriteDiff(response *DiffResponse, format OutputFormat, writer io.Writer) error
	WriteDirDiff(response *DirDiffResponse, format OutputFormat, writer io.Writer) error
	WriteParse(response *ParseResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads the file at path, or the nearest configuration file
	// above target when path is empty
	LoadConfig(path, target string) (*DiffSettings, error)

	// MergeConfig merges command line settings into configuration values
	MergeConfig(base *DiffSettings, override *DiffSettings) *DiffSettings
}
