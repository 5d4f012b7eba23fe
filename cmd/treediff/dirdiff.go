package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/service"
)

// DirDiffCommand represents the dirdiff command
type DirDiffCommand struct {
	flags settingsFlags
	dirs  dirFlags
}

// NewDirDiffCommand creates a new dirdiff command
func NewDirDiffCommand() *DirDiffCommand {
	return &DirDiffCommand{}
}

// CreateCobraCommand creates the cobra command for comparing directories
func (c *DirDiffCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirdiff SRC_DIR DST_DIR",
		Short: "Compare two directories and diff every modified file",
		Long: `Compare two directory trees file by file.

Files are classified as added, deleted or modified by their relative path
and content. Every modified file a tree generator supports is diffed, in
parallel. Dot files and dot directories are ignored.

Examples:
  # Compare two checkouts
  treediff dirdiff v1/ v2/

  # Only Go sources, without vendored code
  treediff dirdiff --include '**/*.go' --exclude 'vendor/**' v1/ v2/

  # Limit parallelism and emit YAML
  treediff dirdiff -j 4 --format yaml v1/ v2/`,
		Args: cobra.ExactArgs(2),
		RunE: c.runDirDiff,
	}

	c.flags.register(cmd.Flags())
	c.dirs.register(cmd.Flags())
	return cmd
}

// runDirDiff executes the dirdiff command
func (c *DirDiffCommand) runDirDiff(cmd *cobra.Command, args []string) error {
	tracker := config.TrackFlags(cmd.Flags())
	logger := newLogger(cmd)

	progress := service.NewProgressManager("Diffing files")
	progress.SetWriter(cmd.ErrOrStderr())
	defer progress.Close()

	dirDiffService := service.NewDirDiffService(
		service.NewDirectoryComparator(),
		service.NewDiffService(logger),
		service.NewParallelExecutor(),
		progress,
		logger,
	)

	useCase, err := app.NewDirDiffUseCaseBuilder().
		WithService(dirDiffService).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoader(tracker)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create dirdiff use case: %w", err)
	}

	settings := c.flags.settings()
	settings.IncludePatterns = c.dirs.include
	settings.ExcludePatterns = c.dirs.exclude
	settings.Concurrency = c.dirs.concurrency
	settings.Timeout = c.dirs.timeout

	_, err = useCase.Execute(cmd.Context(), domain.DirDiffRequest{
		SrcDir:       args[0],
		DstDir:       args[1],
		ConfigPath:   c.flags.configPath,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.flags.outputPath,
		ShowProgress: !c.dirs.noProgress && progress.IsInteractive(),
		DiffSettings: settings,
	})
	return err
}

// NewDirDiffCmd creates and returns the dirdiff cobra command
func NewDirDiffCmd() *cobra.Command {
	return NewDirDiffCommand().CreateCobraCommand()
}
