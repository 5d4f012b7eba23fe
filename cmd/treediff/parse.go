package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/service"
)

// ParseCommand represents the parse command
type ParseCommand struct {
	format     string
	noColor    bool
	outputPath string
}

// NewParseCommand creates a new parse command
func NewParseCommand() *ParseCommand {
	return &ParseCommand{format: "text"}
}

// CreateCobraCommand creates the cobra command for dumping a tree
func (c *ParseCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree generated for a file",
		Long: `Print the tree treediff generates for a file.

The json and yaml formats write tree files, which can be edited and diffed
again.

Examples:
  treediff parse main.go
  treediff parse --format json app.py > app.tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: c.runParse,
	}

	cmd.Flags().StringVarP(&c.format, "format", "f", "text", "Output format (text|json|yaml|lisp)")
	cmd.Flags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Write the tree to a file instead of stdout")
	return cmd
}

// runParse executes the parse command
func (c *ParseCommand) runParse(cmd *cobra.Command, args []string) error {
	color := domain.ColorAuto
	if c.noColor {
		color = domain.ColorNever
	}
	useCase := app.NewParseUseCase(
		service.NewParseService(),
		service.NewOutputFormatter(),
		service.NewFileOutputWriter(cmd.ErrOrStderr()),
	)
	return useCase.Execute(cmd.Context(), app.ParseRequest{
		Path:         args[0],
		OutputFormat: domain.OutputFormat(c.format),
		Color:        color,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.outputPath,
	})
}

// NewParseCmd creates and returns the parse cobra command
func NewParseCmd() *cobra.Command {
	return NewParseCommand().CreateCobraCommand()
}
