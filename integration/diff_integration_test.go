package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/internal/matcher"
	"github.com/ludo-technologies/treediff/service"
)

// sourcePairs are before/after versions of a small edit in every language
// the tree-sitter generators handle
var sourcePairs = []struct {
	name string
	ext  string
	src  string
	dst  string
}{
	{
		name: "python",
		ext:  ".py",
		src:  "def area(w, h):\n    return w * h\n\ndef perimeter(w, h):\n    return 2 * (w + h)\n",
		dst:  "def perimeter(w, h):\n    return 2 * (w + h)\n\ndef area(width, h):\n    if width < 0:\n        return 0\n    return width * h\n",
	},
	{
		name: "go",
		ext:  ".go",
		src:  "package shapes\n\nfunc Area(w, h int) int {\n\treturn w * h\n}\n",
		dst:  "package shapes\n\nfunc Area(w, h int) int {\n\tif w < 0 {\n\t\treturn 0\n\t}\n\treturn w * h\n}\n\nfunc Zero() int { return 0 }\n",
	},
	{
		name: "javascript",
		ext:  ".js",
		src:  "function area(w, h) { return w * h; }\nconst unit = 1;\n",
		dst:  "const unit = 2;\nfunction area(w, h) { return unit * w * h; }\n",
	},
	{
		name: "java",
		ext:  ".java",
		src:  "class Shape { int area(int w, int h) { return w * h; } }\n",
		dst:  "class Shape { int side = 1; int area(int w, int h) { return w * h * side; } }\n",
	},
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// explicitFlags marks every request setting as given on the command line,
// so no configuration file value replaces it
func explicitFlags() *config.FlagTracker {
	tracker := config.NewFlagTracker()
	for _, f := range []string{"pipeline", "format", "color", "simplify", "verify", "include", "exclude", "concurrency"} {
		tracker.Set(f)
	}
	return tracker
}

func newDiffUseCase(tracker *config.FlagTracker) *app.DiffUseCase {
	return app.NewDiffUseCase(
		service.NewDiffService(nil),
		service.NewOutputFormatter(),
		service.NewConfigurationLoader(tracker),
		service.NewFileOutputWriter(nil),
	)
}

// TestDiffEveryPipelineEveryLanguage checks that every pipeline produces a
// script that rebuilds the destination for every supported language
func TestDiffEveryPipelineEveryLanguage(t *testing.T) {
	for _, pair := range sourcePairs {
		dir := t.TempDir()
		src := writeFile(t, dir, "before/shape"+pair.ext, pair.src)
		dst := writeFile(t, dir, "after/shape"+pair.ext, pair.dst)

		for _, pipeline := range matcher.Pipelines() {
			for _, simplify := range []bool{false, true} {
				name := pair.name + "/" + pipeline
				if simplify {
					name += "/simplified"
				}
				t.Run(name, func(t *testing.T) {
					var out bytes.Buffer
					resp, err := newDiffUseCase(explicitFlags()).Execute(context.Background(), domain.DiffRequest{
						SrcPath:      src,
						DstPath:      dst,
						OutputWriter: &out,
						DiffSettings: domain.DiffSettings{
							Pipeline:     pipeline,
							OutputFormat: domain.OutputFormatJSON,
							Color:        domain.ColorNever,
							Simplify:     simplify,
							Verify:       true,
						},
					})
					require.NoError(t, err)
					assert.True(t, resp.Verified)
					assert.NotEmpty(t, resp.Actions)
					assert.Equal(t, "tree-sitter-"+pair.name, resp.Generator)
					assert.Equal(t, len(resp.Actions), resp.Summary.Total)
					assert.NotZero(t, out.Len())
				})
			}
		}
	}
}

// TestDiffDeterministic runs the same diff repeatedly and expects one report
func TestDiffDeterministic(t *testing.T) {
	dir := t.TempDir()
	pair := sourcePairs[0]
	src := writeFile(t, dir, "a"+pair.ext, pair.src)
	dst := writeFile(t, dir, "b"+pair.ext, pair.dst)

	var first string
	for i := 0; i < 20; i++ {
		var out bytes.Buffer
		_, err := newDiffUseCase(explicitFlags()).Execute(context.Background(), domain.DiffRequest{
			SrcPath:      src,
			DstPath:      dst,
			OutputWriter: &out,
			DiffSettings: domain.DiffSettings{
				Pipeline:     matcher.PipelineClassic,
				OutputFormat: domain.OutputFormatLisp,
			},
		})
		require.NoError(t, err)
		if i == 0 {
			first = out.String()
			continue
		}
		assert.Equal(t, first, out.String(), "run %d differs", i)
	}
}

// TestDiffConfigPrecedence checks that explicit flags override the nearest
// configuration file, which overrides the defaults
func TestDiffConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".treediff.toml", "[matcher]\npipeline = \"simple\"\nsimilarity = \"jaccard\"\n\n[output]\nformat = \"json\"\n")
	src := writeFile(t, dir, "src/a.py", sourcePairs[0].src)
	dst := writeFile(t, dir, "src/b.py", sourcePairs[0].dst)

	tests := []struct {
		name         string
		flags        []string
		settings     domain.DiffSettings
		wantPipeline string
		wantJSON     bool
	}{
		{
			name:         "config file wins over unset flags",
			settings:     domain.DiffSettings{Pipeline: matcher.PipelineClassic, OutputFormat: domain.OutputFormatText},
			wantPipeline: matcher.PipelineSimple,
			wantJSON:     true,
		},
		{
			name:         "explicit pipeline flag wins",
			flags:        []string{"pipeline"},
			settings:     domain.DiffSettings{Pipeline: matcher.PipelineHybrid, OutputFormat: domain.OutputFormatText},
			wantPipeline: matcher.PipelineHybrid,
			wantJSON:     true,
		},
		{
			name:         "explicit format flag wins",
			flags:        []string{"format"},
			settings:     domain.DiffSettings{Pipeline: matcher.PipelineClassic, OutputFormat: domain.OutputFormatText},
			wantPipeline: matcher.PipelineSimple,
			wantJSON:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := config.NewFlagTracker()
			for _, f := range tt.flags {
				tracker.Set(f)
			}

			var out bytes.Buffer
			req := domain.DiffRequest{SrcPath: src, DstPath: dst, OutputWriter: &out, DiffSettings: tt.settings}
			resp, err := newDiffUseCase(tracker).Execute(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPipeline, resp.Pipeline)
			assert.Equal(t, tt.wantJSON, bytes.HasPrefix(bytes.TrimSpace(out.Bytes()), []byte("{")))
		})
	}
}

// TestDiffCancellation checks that a cancelled context stops the diff
func TestDiffCancellation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.go", sourcePairs[1].src)
	dst := writeFile(t, dir, "b.go", sourcePairs[1].dst)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := newDiffUseCase(nil).Execute(ctx, domain.DiffRequest{
		SrcPath:      src,
		DstPath:      dst,
		OutputWriter: &out,
		DiffSettings: domain.DiffSettings{Pipeline: matcher.PipelineClassic},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Zero(t, out.Len())
}

// TestDirDiffMixedLanguages compares two source trees holding every language
func TestDirDiffMixedLanguages(t *testing.T) {
	dir := t.TempDir()
	for _, pair := range sourcePairs {
		writeFile(t, dir, "v1/"+pair.name+"/shape"+pair.ext, pair.src)
		writeFile(t, dir, "v2/"+pair.name+"/shape"+pair.ext, pair.dst)
	}
	writeFile(t, dir, "v1/broken.py", "x = 1\n")
	writeFile(t, dir, "v2/broken.py", "def broken(:\n")
	writeFile(t, dir, "v2/vendor/lib.go", "package lib\n")

	dirService := service.NewDirDiffService(
		service.NewDirectoryComparator(),
		service.NewDiffService(nil),
		service.NewParallelExecutor(),
		nil,
		nil,
	)
	uc := app.NewDirDiffUseCase(dirService, service.NewOutputFormatter(), service.NewConfigurationLoader(explicitFlags()), service.NewFileOutputWriter(nil))

	var out bytes.Buffer
	resp, err := uc.Execute(context.Background(), domain.DirDiffRequest{
		SrcDir:       filepath.Join(dir, "v1"),
		DstDir:       filepath.Join(dir, "v2"),
		OutputWriter: &out,
		DiffSettings: domain.DiffSettings{
			Pipeline:        matcher.PipelineClassic,
			OutputFormat:    domain.OutputFormatJSON,
			Verify:          true,
			ExcludePatterns: []string{"vendor/**"},
			Concurrency:     2,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Summary.Added)
	assert.Equal(t, len(sourcePairs)+1, resp.Summary.Modified)
	assert.Equal(t, len(sourcePairs), resp.Summary.Diffed)
	assert.Equal(t, 1, resp.Summary.Failed)
	for _, f := range resp.Files {
		if f.Diff != nil {
			assert.True(t, f.Diff.Verified, f.Path)
		}
	}
}
