package main

import (
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/treediff/internal/version"
	"github.com/ludo-technologies/treediff/mcp"
)

const serverName = "treediff"

func main() {
	// stdout carries JSON-RPC, so logs go to stderr
	level := slog.LevelInfo
	if os.Getenv("TREEDIFF_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	deps := mcp.NewDependencies(os.Getenv("TREEDIFF_CONFIG"), logger)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	logger.Info("starting MCP server", "name", serverName, "version", version.Short(),
		"tools", []string{"diff_trees", "diff_directories", "parse_tree"})

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
