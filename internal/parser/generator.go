package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/treediff/internal/tree"
)

var (
	// ErrUnsupportedLanguage is returned for a file extension or language
	// name no generator handles
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrSyntax is returned when the source does not parse cleanly
	ErrSyntax = errors.New("syntax errors found in source code")
)

// Metadata keys set on generated contexts
const (
	MetaGenerator = "generator"
	MetaLanguage  = "language"
)

// Generator builds a tree from raw source bytes. Node types are interned in
// types, so trees meant to be compared must share one TypeSet.
type Generator interface {
	Name() string
	Generate(ctx context.Context, source []byte, types *tree.TypeSet) (*tree.Context, error)
}

// ForPath picks the generator for a file by its extension
func ForPath(path string) (Generator, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return NewTreeFileGenerator(FormatJSON), nil
	case ".yaml", ".yml":
		return NewTreeFileGenerator(FormatYAML), nil
	}
	for _, lang := range languages {
		for _, e := range lang.extensions {
			if e == ext {
				return NewTreeSitterGenerator(lang.name)
			}
		}
	}
	return nil, fmt.Errorf("%w: no generator for %q files", ErrUnsupportedLanguage, ext)
}

// ForLanguage returns the tree-sitter generator of a language name
func ForLanguage(name string) (Generator, error) {
	return NewTreeSitterGenerator(name)
}

// Extensions returns every file extension ForPath accepts
func Extensions() []string {
	exts := []string{".json", ".yaml", ".yml"}
	for _, lang := range languages {
		exts = append(exts, lang.extensions...)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether ForPath accepts path
func IsSupported(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

// finish validates root, computes its metrics and wraps it in a context
func finish(root *tree.Node, types *tree.TypeSet, meta map[string]string) (*tree.Context, error) {
	if err := tree.Validate(root); err != nil {
		return nil, err
	}
	tree.Refresh(root)
	c := tree.NewContext(root, types)
	for k, v := range meta {
		c.Metadata[k] = v
	}
	return c, nil
}
