package service

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/parser"
	"github.com/ludo-technologies/treediff/internal/version"
)

// DirDiffServiceImpl implements the DirDiffService interface
type DirDiffServiceImpl struct {
	comparator domain.DirectoryComparator
	diff       domain.DiffService
	executor   domain.ParallelExecutor
	progress   domain.ProgressManager
	logger     *slog.Logger
}

// NewDirDiffService creates a directory diff service. progress and logger
// may be nil.
func NewDirDiffService(
	comparator domain.DirectoryComparator,
	diff domain.DiffService,
	executor domain.ParallelExecutor,
	progress domain.ProgressManager,
	logger *slog.Logger,
) *DirDiffServiceImpl {
	return &DirDiffServiceImpl{
		comparator: comparator,
		diff:       diff,
		executor:   executor,
		progress:   progress,
		logger:     logger,
	}
}

// DiffDirectories classifies the files of both roots and diffs every
// modified pair a tree generator supports. A failing pair is reported in
// its FileDiff and does not stop the others.
func (s *DirDiffServiceImpl) DiffDirectories(ctx context.Context, req domain.DirDiffRequest) (*domain.DirDiffResponse, error) {
	cmp, err := s.comparator.Compare(req.SrcDir, req.DstDir, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	files := make([]domain.FileDiff, 0, len(cmp.Added)+len(cmp.Deleted)+len(cmp.Modified))
	for _, rel := range cmp.Deleted {
		files = append(files, domain.FileDiff{Path: rel, Status: domain.FileDeleted})
	}
	for _, rel := range cmp.Added {
		files = append(files, domain.FileDiff{Path: rel, Status: domain.FileAdded})
	}

	var tasks []domain.ExecutableTask
	first := len(files)
	for _, rel := range cmp.Modified {
		files = append(files, domain.FileDiff{Path: rel, Status: domain.FileModified})
	}
	for i := first; i < len(files); i++ {
		fd := &files[i]
		srcPath, dstPath := s.pairPaths(req, cmp, fd.Path)
		if cmp.FileMode {
			fd.Path = filepath.Base(srcPath)
		}
		if !parser.IsSupported(srcPath) {
			fd.Skipped = true
			continue
		}
		tasks = append(tasks, s.pairTask(fd, srcPath, dstPath, req.DiffSettings))
	}

	if s.progress != nil && req.ShowProgress {
		s.progress.Initialize(len(tasks))
		s.progress.Start()
	}
	err = s.executor.Execute(ctx, tasks, domain.ExecutionLimits{
		MaxConcurrency: req.Concurrency,
		Timeout:        req.Timeout,
	})
	if s.progress != nil && req.ShowProgress {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}

	sortFileDiffs(files)
	resp := &domain.DirDiffResponse{
		SrcDir:      req.SrcDir,
		DstDir:      req.DstDir,
		Files:       files,
		Summary:     summarizeFiles(files, cmp.Unchanged),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}
	if s.logger != nil {
		s.logger.Debug("directories compared",
			"src", req.SrcDir, "dst", req.DstDir,
			"diffed", resp.Summary.Diffed, "failed", resp.Summary.Failed)
	}
	return resp, nil
}

// pairPaths resolves a relative path on both sides. In file mode the roots
// themselves are the pair and the report path is the file name.
func (s *DirDiffServiceImpl) pairPaths(req domain.DirDiffRequest, cmp *domain.DirComparison, rel string) (string, string) {
	if cmp.FileMode {
		return req.SrcDir, req.DstDir
	}
	return filepath.Join(req.SrcDir, filepath.FromSlash(rel)), filepath.Join(req.DstDir, filepath.FromSlash(rel))
}

// pairTask diffs one pair into fd. Each task owns its FileDiff, so no
// locking is needed on the results. Only context errors fail the task.
func (s *DirDiffServiceImpl) pairTask(fd *domain.FileDiff, srcPath, dstPath string, settings domain.DiffSettings) domain.ExecutableTask {
	return NewSimpleTask(fd.Path, func(ctx context.Context) error {
		if s.progress != nil {
			defer s.progress.Increment()
		}
		resp, err := s.diff.Diff(ctx, domain.DiffRequest{
			SrcPath:      srcPath,
			DstPath:      dstPath,
			DiffSettings: settings,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fd.Error = err.Error()
			return nil
		}
		fd.Diff = resp
		return nil
	})
}

var statusOrder = map[domain.FileStatus]int{
	domain.FileDeleted:  0,
	domain.FileAdded:    1,
	domain.FileModified: 2,
}

// sortFileDiffs orders by directory, then name, then status
func sortFileDiffs(files []domain.FileDiff) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if da, db := path.Dir(a.Path), path.Dir(b.Path); da != db {
			return da < db
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return statusOrder[a.Status] < statusOrder[b.Status]
	})
}

func summarizeFiles(files []domain.FileDiff, unchanged int) domain.DirDiffSummary {
	sum := domain.DirDiffSummary{Unchanged: unchanged}
	for _, f := range files {
		switch f.Status {
		case domain.FileAdded:
			sum.Added++
		case domain.FileDeleted:
			sum.Deleted++
		case domain.FileModified:
			sum.Modified++
			switch {
			case f.Skipped:
				sum.Skipped++
			case f.Error != "":
				sum.Failed++
			case f.Diff != nil:
				sum.Diffed++
				sum.Actions += f.Diff.Summary.Total
			}
		}
	}
	return sum
}
