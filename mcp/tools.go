package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the treediff MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("diff_trees",
		mcp.WithDescription("Compute the fine-grained edit script (insert, delete, update, move) between the syntax trees of two files"),
		mcp.WithString("src_path",
			mcp.Required(),
			mcp.Description("Path to the original file (.go .java .js .py or a .json/.yaml tree file)")),
		mcp.WithString("dst_path",
			mcp.Required(),
			mcp.Description("Path to the modified file, handled by the same tree generator")),
		mcp.WithString("pipeline",
			mcp.Enum("classic", "classic-hungarian", "hybrid", "optimal", "simple"),
			mcp.Description("Matcher pipeline (default: classic)")),
		mcp.WithObject("options",
			mcp.Description("Matcher option overrides, e.g. {\"bottom_up_similarity_threshold\": 0.6}")),
		mcp.WithBoolean("simplify",
			mcp.Description("Fold whole inserted or deleted subtrees into single actions (default: false)")),
		mcp.WithBoolean("verify",
			mcp.Description("Replay the script and check that it rebuilds the destination (default: false)")),
		mcp.WithString("format",
			mcp.Enum("json", "yaml", "text", "lisp"),
			mcp.Description("Output format (default: json)")),
	), h.HandleDiffTrees)

	s.AddTool(mcp.NewTool("diff_directories",
		mcp.WithDescription("Compare two directories and diff the syntax trees of every modified file"),
		mcp.WithString("src_dir",
			mcp.Required(),
			mcp.Description("Original directory")),
		mcp.WithString("dst_dir",
			mcp.Required(),
			mcp.Description("Modified directory")),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of relative paths to include, e.g. **/*.go")),
		mcp.WithArray("exclude",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of relative paths to exclude, e.g. vendor/**")),
		mcp.WithString("format",
			mcp.Enum("json", "yaml", "text", "lisp"),
			mcp.Description("Output format (default: json)")),
	), h.HandleDiffDirectories)

	s.AddTool(mcp.NewTool("parse_tree",
		mcp.WithDescription("Print the syntax tree treediff generates for a file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file")),
		mcp.WithString("format",
			mcp.Enum("json", "yaml", "text", "lisp"),
			mcp.Description("Output format (default: json, a tree file)")),
	), h.HandleParseTree)
}
