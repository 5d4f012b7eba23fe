package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/service"
)

// DiffCommand represents the diff command
type DiffCommand struct {
	flags settingsFlags
}

// NewDiffCommand creates a new diff command
func NewDiffCommand() *DiffCommand {
	return &DiffCommand{}
}

// CreateCobraCommand creates the cobra command for diffing two files
func (c *DiffCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff SRC DST",
		Short: "Diff the syntax trees of two files",
		Long: `Diff the syntax trees of two files and print the edit script.

Both files must be handled by the same tree generator, chosen by extension:
.go .java .js .mjs .cjs .py for tree-sitter, .json .yaml .yml for tree files.

Settings are read from the nearest .treediff.toml (or .yaml, .json) above
SRC; flags given on the command line override them.

Examples:
  # Diff two Python files
  treediff diff old.py new.py

  # Use the optimal aligner and check the script
  treediff diff --pipeline optimal --verify old.go new.go

  # Tune the bottom-up stage
  treediff diff -O bottom_up_similarity_threshold=0.3 -O similarity=dice a.js b.js

  # Machine readable output
  treediff diff --format json old.py new.py > diff.json`,
		Args: cobra.ExactArgs(2),
		RunE: c.runDiff,
	}

	c.flags.register(cmd.Flags())
	return cmd
}

// runDiff executes the diff command
func (c *DiffCommand) runDiff(cmd *cobra.Command, args []string) error {
	tracker := config.TrackFlags(cmd.Flags())

	useCase, err := app.NewDiffUseCaseBuilder().
		WithService(service.NewDiffService(newLogger(cmd))).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoader(tracker)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create diff use case: %w", err)
	}

	_, err = useCase.Execute(cmd.Context(), domain.DiffRequest{
		SrcPath:      args[0],
		DstPath:      args[1],
		ConfigPath:   c.flags.configPath,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.flags.outputPath,
		DiffSettings: c.flags.settings(),
	})
	return err
}

// NewDiffCmd creates and returns the diff cobra command
func NewDiffCmd() *cobra.Command {
	return NewDiffCommand().CreateCobraCommand()
}
