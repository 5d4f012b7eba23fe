package service

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/treediff/domain"
)

// DirectoryComparatorImpl implements the DirectoryComparator interface
type DirectoryComparatorImpl struct{}

// NewDirectoryComparator creates a new directory comparator
func NewDirectoryComparator() *DirectoryComparatorImpl {
	return &DirectoryComparatorImpl{}
}

// Compare classifies the files under srcRoot and dstRoot. Two regular files
// are compared directly. Dot files and dot directories are skipped.
func (c *DirectoryComparatorImpl) Compare(srcRoot, dstRoot string, includePatterns, excludePatterns []string) (*domain.DirComparison, error) {
	srcInfo, err := os.Stat(srcRoot)
	if err != nil {
		return nil, domain.NewFileNotFoundError(srcRoot, err)
	}
	dstInfo, err := os.Stat(dstRoot)
	if err != nil {
		return nil, domain.NewFileNotFoundError(dstRoot, err)
	}

	switch {
	case srcInfo.Mode().IsRegular() && dstInfo.Mode().IsRegular():
		return &domain.DirComparison{Modified: []string{""}, FileMode: true}, nil
	case srcInfo.IsDir() != dstInfo.IsDir():
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("%s and %s are not of the same kind (file and directory)", srcRoot, dstRoot), nil)
	case !srcInfo.IsDir():
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("%s and %s must be regular files or directories", srcRoot, dstRoot), nil)
	}

	for _, p := range append(append([]string{}, includePatterns...), excludePatterns...) {
		if !doublestar.ValidatePattern(p) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid pattern %q", p), nil)
		}
	}

	srcFiles, err := collectFiles(srcRoot, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}
	dstFiles, err := collectFiles(dstRoot, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}

	result := &domain.DirComparison{}
	for rel := range dstFiles {
		if _, ok := srcFiles[rel]; !ok {
			result.Added = append(result.Added, rel)
		}
	}
	for rel := range srcFiles {
		if _, ok := dstFiles[rel]; !ok {
			result.Deleted = append(result.Deleted, rel)
			continue
		}
		changed, err := filesDiffer(filepath.Join(srcRoot, filepath.FromSlash(rel)), filepath.Join(dstRoot, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		if changed {
			result.Modified = append(result.Modified, rel)
		} else {
			result.Unchanged++
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Deleted)
	sort.Strings(result.Modified)
	return result, nil
}

// collectFiles returns the slash-separated relative paths of the regular
// files under root that pass the patterns
func collectFiles(root string, includePatterns, excludePatterns []string) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if shouldIncludeFile(rel, includePatterns, excludePatterns) {
			files[rel] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to walk directory %s", root), err)
	}
	return files, nil
}

// shouldIncludeFile checks a relative path against the patterns. Exclusion
// wins; no include pattern means everything is included.
func shouldIncludeFile(rel string, includePatterns, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return false
		}
	}
	if len(includePatterns) == 0 {
		return true
	}
	for _, pattern := range includePatterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// filesDiffer compares sizes first, then contents
func filesDiffer(a, b string) (bool, error) {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false, domain.NewFileNotFoundError(a, err)
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false, domain.NewFileNotFoundError(b, err)
	}
	if aInfo.Size() != bInfo.Size() {
		return true, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, domain.NewFileNotFoundError(a, err)
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, domain.NewFileNotFoundError(b, err)
	}
	defer fb.Close()

	ra, rb := bufio.NewReader(fa), bufio.NewReader(fb)
	bufA, bufB := make([]byte, 32*1024), make([]byte, 32*1024)
	for {
		na, errA := io.ReadFull(ra, bufA)
		nb, errB := io.ReadFull(rb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return true, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if doneA || doneB {
			return doneA != doneB, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}
