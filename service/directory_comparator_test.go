package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/domain"
)

func TestDirectoryComparatorCompare(t *testing.T) {
	tests := []struct {
		name      string
		src, dst  map[string]string
		include   []string
		exclude   []string
		added     []string
		deleted   []string
		modified  []string
		unchanged int
	}{
		{
			name: "classifies files",
			src: map[string]string{
				"a.json":     `{"type": "a"}`,
				"b.json":     `{"type": "b"}`,
				"pkg/c.json": `{"type": "c"}`,
			},
			dst: map[string]string{
				"a.json":     `{"type": "a"}`,
				"pkg/c.json": `{"type": "C"}`,
				"pkg/d.json": `{"type": "d"}`,
			},
			added:     []string{"pkg/d.json"},
			deleted:   []string{"b.json"},
			modified:  []string{"pkg/c.json"},
			unchanged: 1,
		},
		{
			name:     "same size different content",
			src:      map[string]string{"x.py": "a = 1\n"},
			dst:      map[string]string{"x.py": "b = 1\n"},
			modified: []string{"x.py"},
		},
		{
			name:      "dot directories skipped",
			src:       map[string]string{".git/HEAD": "ref", "a.go": "package a\n"},
			dst:       map[string]string{"a.go": "package a\n"},
			unchanged: 1,
		},
		{
			name:      "exclude wins",
			src:       map[string]string{"vendor/x/a.go": "package a\n", "main.go": "package main\n"},
			dst:       map[string]string{"main.go": "package main\n"},
			exclude:   []string{"vendor/**"},
			unchanged: 1,
		},
		{
			name:     "include filters",
			src:      map[string]string{"a.json": `{"type": "a"}`, "README.md": "old"},
			dst:      map[string]string{"a.json": `{"type": "b"}`, "README.md": "new"},
			include:  []string{"**/*.json"},
			modified: []string{"a.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			srcDir, dstDir := filepath.Join(root, "src"), filepath.Join(root, "dst")
			writeFiles(t, srcDir, tt.src)
			writeFiles(t, dstDir, tt.dst)

			got, err := NewDirectoryComparator().Compare(srcDir, dstDir, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.added, got.Added)
			assert.Equal(t, tt.deleted, got.Deleted)
			assert.Equal(t, tt.modified, got.Modified)
			assert.Equal(t, tt.unchanged, got.Unchanged)
			assert.False(t, got.FileMode)
		})
	}
}

func TestDirectoryComparatorFileMode(t *testing.T) {
	srcPath, dstPath := writePair(t, "tree.json", scenarioSrc, scenarioSrc)

	got, err := NewDirectoryComparator().Compare(srcPath, dstPath, nil, nil)
	require.NoError(t, err)
	assert.True(t, got.FileMode)
	assert.Equal(t, []string{""}, got.Modified)
}

func TestDirectoryComparatorErrors(t *testing.T) {
	srcPath, _ := writePair(t, "tree.json", scenarioSrc, scenarioSrc)
	dir := t.TempDir()

	tests := []struct {
		name     string
		src, dst string
		exclude  []string
		code     string
	}{
		{name: "file and directory", src: srcPath, dst: dir, code: domain.ErrCodeInvalidInput},
		{name: "missing", src: filepath.Join(dir, "nope"), dst: dir, code: domain.ErrCodeFileNotFound},
		{name: "bad pattern", src: dir, dst: dir, exclude: []string{"[a-"}, code: domain.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDirectoryComparator().Compare(tt.src, tt.dst, nil, tt.exclude)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}
}

func TestShouldIncludeFile(t *testing.T) {
	tests := []struct {
		path    string
		include []string
		exclude []string
		want    bool
	}{
		{path: "a.go", want: true},
		{path: "a/b/c.go", include: []string{"**/*.go"}, want: true},
		{path: "a/b/c.py", include: []string{"**/*.go"}, want: false},
		{path: "vendor/a.go", include: []string{"**/*.go"}, exclude: []string{"vendor/**"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIncludeFile(tt.path, tt.include, tt.exclude))
		})
	}
}
