package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/domain"
)

// scenarioSrc and scenarioDst differ by one insertion, one move, one
// relabel and one removal
const scenarioSrc = `{"type": "Function", "children": [
  {"type": "If", "children": [
    {"type": "GreaterThan", "children": [
      {"type": "Call", "children": [
        {"type": "Empty"},
        {"type": "Id", "label": "delete"},
        {"type": "Id", "label": "value"}
      ]},
      {"type": "Integer", "label": "1"}
    ]},
    {"type": "Block", "children": [
      {"type": "Return", "children": [{"type": "Boolean", "label": "true"}]},
      {"type": "Expr", "children": [{"type": "Id", "label": "x"}]}
    ]}
  ]},
  {"type": "Id", "label": "obsolete"}
]}`

const scenarioDst = `{"type": "Function", "children": [
  {"type": "Modifier", "label": "public"},
  {"type": "If", "children": [
    {"type": "GreaterThan", "children": [
      {"type": "Call", "children": [
        {"type": "Empty"},
        {"type": "Id", "label": "remove"},
        {"type": "Id", "label": "value"}
      ]},
      {"type": "Integer", "label": "1"}
    ]},
    {"type": "Block", "children": [
      {"type": "Expr", "children": [{"type": "Id", "label": "x"}]},
      {"type": "Return", "children": [{"type": "Boolean", "label": "true"}]}
    ]}
  ]}
]}`

// writeFiles creates files relative to dir, with parent directories
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// writePair writes src and dst under a fresh directory and returns their paths
func writePair(t *testing.T, name, src, dst string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"src/" + name: src, "dst/" + name: dst})
	return filepath.Join(dir, "src", name), filepath.Join(dir, "dst", name)
}

func kindsOf(actions []domain.ActionInfo) []string {
	kinds := make([]string, len(actions))
	for i, a := range actions {
		kinds[i] = a.Kind
	}
	return kinds
}
