package domain

import (
	"context"
	"io"
)

// FileStatus classifies a relative path of a directory comparison
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileDeleted  FileStatus = "deleted"
	FileModified FileStatus = "modified"
)

// DirComparison is the result of walking two directory trees. Paths are
// slash-separated and relative to the compared roots, sorted.
type DirComparison struct {
	Added     []string
	Deleted   []string
	Modified  []string
	Unchanged int

	// FileMode is set when both roots are regular files. Modified then
	// holds a single empty path.
	FileMode bool
}

// DirectoryComparator classifies the files of two directory trees
type DirectoryComparator interface {
	Compare(srcRoot, dstRoot string, includePatterns, excludePatterns []string) (*DirComparison, error)
}

// DirDiffRequest represents a request to compare two directories
type DirDiffRequest struct {
	SrcDir string
	DstDir string

	ConfigPath   string
	OutputWriter io.Writer
	OutputPath   string

	// ShowProgress enables the progress bar on interactive terminals
	ShowProgress bool

	DiffSettings
}

// FileDiff is the outcome for one relative path
type FileDiff struct {
	Path   string     `json:"path" yaml:"path"`
	Status FileStatus `json:"status" yaml:"status"`

	// Diff is set for modified files a tree generator supports
	Diff *DiffResponse `json:"diff,omitempty" yaml:"diff,omitempty"`

	// Skipped is set for modified files no tree generator supports
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Error is set when diffing the pair failed
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DirDiffSummary represents aggregate statistics of a directory comparison
type DirDiffSummary struct {
	Added     int `json:"added" yaml:"added"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Modified  int `json:"modified" yaml:"modified"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Diffed    int `json:"diffed" yaml:"diffed"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
	Actions   int `json:"actions" yaml:"actions"`
}

// DirDiffResponse represents the result of a directory comparison
type DirDiffResponse struct {
	SrcDir  string         `json:"src_dir" yaml:"src_dir"`
	DstDir  string         `json:"dst_dir" yaml:"dst_dir"`
	Files   []FileDiff     `json:"files" yaml:"files"`
	Summary DirDiffSummary `json:"summary" yaml:"summary"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// DirDiffService compares directory trees
type DirDiffService interface {
	DiffDirectories(ctx context.Context, req DirDiffRequest) (*DirDiffResponse, error)
}
