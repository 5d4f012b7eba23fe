package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/treediff/domain"
)

// settingsFlags holds the flags shared by diff and dirdiff
type settingsFlags struct {
	pipeline   string
	options    map[string]string
	format     string
	color      string
	noColor    bool
	simplify   bool
	verify     bool
	configPath string
	outputPath string
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.pipeline, "pipeline", "p", "classic",
		"Matcher pipeline (classic|classic-hungarian|hybrid|optimal|simple)")
	fs.StringToStringVarP(&f.options, "option", "O", nil,
		"Matcher option override as key=value, e.g. -O bottom_up_similarity_threshold=0.6")
	fs.StringVarP(&f.format, "format", "f", "text", "Output format (text|json|yaml|lisp)")
	fs.StringVar(&f.color, "color", "auto", "Colored text output (auto|always|never)")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.simplify, "simplify", false, "Fold whole inserted or deleted subtrees into single actions")
	fs.BoolVar(&f.verify, "verify", false, "Replay the edit script and check that it rebuilds the destination")
	fs.StringVarP(&f.configPath, "config", "c", "", "Configuration file path")
	fs.StringVarP(&f.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
}

func (f *settingsFlags) settings() domain.DiffSettings {
	color := domain.ColorMode(f.color)
	if f.noColor {
		color = domain.ColorNever
	}
	return domain.DiffSettings{
		Pipeline:     f.pipeline,
		Options:      f.options,
		OutputFormat: domain.OutputFormat(f.format),
		Color:        color,
		Simplify:     f.simplify,
		Verify:       f.verify,
	}
}

// dirFlags holds the directory selection flags of dirdiff
type dirFlags struct {
	include     []string
	exclude     []string
	concurrency int
	timeout     time.Duration
	noProgress  bool
}

func (f *dirFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.include, "include", nil, "Include glob patterns over relative paths, e.g. **/*.go")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "Exclude glob patterns over relative paths, e.g. vendor/**")
	fs.IntVarP(&f.concurrency, "concurrency", "j", 0, "Number of file pairs diffed in parallel (0 = all CPUs)")
	fs.DurationVar(&f.timeout, "timeout", 5*time.Minute, "Timeout of the whole comparison (0 = none)")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Hide the progress bar")
}

// newLogger returns a debug logger on stderr when --verbose is set, nil
// otherwise
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
