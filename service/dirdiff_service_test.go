package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/domain"
)

func newTestDirDiffService() *DirDiffServiceImpl {
	return NewDirDiffService(NewDirectoryComparator(), NewDiffService(nil), NewParallelExecutor(), nil, nil)
}

func TestDirDiffServiceSummary(t *testing.T) {
	root := t.TempDir()
	srcDir, dstDir := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFiles(t, srcDir, map[string]string{
		"pkg/scenario.json": scenarioSrc,
		"pkg/same.json":     `{"type": "a"}`,
		"broken.json":       `{"type": "a"}`,
		"notes.txt":         "old",
		"gone.yaml":         "type: a\n",
	})
	writeFiles(t, dstDir, map[string]string{
		"pkg/scenario.json": scenarioDst,
		"pkg/same.json":     `{"type": "a"}`,
		"broken.json":       `{"type": `,
		"notes.txt":         "new",
		"new.go":            "package a\n",
	})

	resp, err := newTestDirDiffService().DiffDirectories(context.Background(), domain.DirDiffRequest{
		SrcDir:       srcDir,
		DstDir:       dstDir,
		DiffSettings: domain.DiffSettings{Concurrency: 2, Verify: true},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DirDiffSummary{
		Added:     1,
		Deleted:   1,
		Modified:  3,
		Unchanged: 1,
		Diffed:    1,
		Skipped:   1,
		Failed:    1,
		Actions:   4,
	}, resp.Summary)

	paths := make([]string, len(resp.Files))
	for i, f := range resp.Files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"broken.json", "gone.yaml", "new.go", "notes.txt", "pkg/scenario.json"}, paths)

	byPath := make(map[string]domain.FileDiff)
	for _, f := range resp.Files {
		byPath[f.Path] = f
	}
	assert.NotEmpty(t, byPath["broken.json"].Error)
	assert.True(t, byPath["notes.txt"].Skipped)
	require.NotNil(t, byPath["pkg/scenario.json"].Diff)
	assert.True(t, byPath["pkg/scenario.json"].Diff.Verified)
	assert.Equal(t, domain.FileAdded, byPath["new.go"].Status)
	assert.Nil(t, byPath["new.go"].Diff)
}

func TestDirDiffServiceFileMode(t *testing.T) {
	srcPath, dstPath := writePair(t, "tree.json", scenarioSrc, scenarioDst)

	resp, err := newTestDirDiffService().DiffDirectories(context.Background(), domain.DirDiffRequest{
		SrcDir: srcPath,
		DstDir: dstPath,
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "tree.json", resp.Files[0].Path)
	assert.Equal(t, 4, resp.Summary.Actions)
}

func TestDirDiffServiceCancelled(t *testing.T) {
	root := t.TempDir()
	srcDir, dstDir := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFiles(t, srcDir, map[string]string{"a.json": scenarioSrc})
	writeFiles(t, dstDir, map[string]string{"a.json": scenarioDst})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDirDiffService().DiffDirectories(ctx, domain.DirDiffRequest{SrcDir: srcDir, DstDir: dstDir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirDiffServiceComparatorError(t *testing.T) {
	_, err := newTestDirDiffService().DiffDirectories(context.Background(), domain.DirDiffRequest{
		SrcDir: filepath.Join(t.TempDir(), "missing"),
		DstDir: t.TempDir(),
	})
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
}
