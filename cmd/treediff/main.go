package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treediff/internal/version"
	"github.com/ludo-technologies/treediff/service"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treediff",
		Short: "Fine-grained structural diff of syntax trees",
		Long: `treediff compares two syntax trees and reports the edit script that
turns the first into the second: node insertions, deletions, label updates
and subtree moves.

Trees are generated from source files with tree-sitter (Go, Java,
JavaScript, Python) or loaded from JSON and YAML tree files.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewDirDiffCmd())
	rootCmd.AddCommand(NewParseCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}

// reportError prints a categorized error with recovery suggestions
func reportError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	fmt.Fprintf(w, "Error: %v\n", err)
	if categorized.Message != err.Error() {
		fmt.Fprintf(w, "%s: %s\n", categorized.Category, categorized.Message)
	}
	fmt.Fprintf(w, "\nSuggestions:\n")
	for _, s := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}
