package mcp

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleDiffTrees handles the diff_trees tool
func (h *HandlerSet) HandleDiffTrees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	srcPath, err := requiredPath(args, "src_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dstPath, err := requiredPath(args, "dst_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := outputFormat(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tracker := config.NewFlagTracker()
	tracker.Set("format")
	tracker.Set("color")
	settings := toolSettings(format)
	if pipeline, ok := args["pipeline"].(string); ok && pipeline != "" {
		settings.Pipeline = pipeline
		tracker.Set("pipeline")
	}
	if options, ok := args["options"].(map[string]interface{}); ok {
		settings.Options = make(map[string]string, len(options))
		for k, v := range options {
			settings.Options[k] = fmt.Sprint(v)
		}
	}
	if simplify, ok := args["simplify"].(bool); ok {
		settings.Simplify = simplify
		tracker.Set("simplify")
	}
	if verify, ok := args["verify"].(bool); ok {
		settings.Verify = verify
		tracker.Set("verify")
	}

	useCase, err := h.deps.BuildDiffUseCase(tracker)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create diff use case: %v", err)), nil
	}

	var buf bytes.Buffer
	_, err = useCase.Execute(ctx, domain.DiffRequest{
		SrcPath:      srcPath,
		DstPath:      dstPath,
		ConfigPath:   h.deps.ConfigPath(),
		OutputWriter: &buf,
		DiffSettings: settings,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diff failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// HandleDiffDirectories handles the diff_directories tool
func (h *HandlerSet) HandleDiffDirectories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	srcDir, err := requiredPath(args, "src_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dstDir, err := requiredPath(args, "dst_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := outputFormat(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tracker := config.NewFlagTracker()
	tracker.Set("format")
	tracker.Set("color")
	settings := toolSettings(format)
	if include := stringSlice(args["include"]); include != nil {
		settings.IncludePatterns = include
		tracker.Set("include")
	}
	if exclude := stringSlice(args["exclude"]); exclude != nil {
		settings.ExcludePatterns = exclude
		tracker.Set("exclude")
	}

	useCase, err := h.deps.BuildDirDiffUseCase(tracker)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create dirdiff use case: %v", err)), nil
	}

	var buf bytes.Buffer
	_, err = useCase.Execute(ctx, domain.DirDiffRequest{
		SrcDir:       srcDir,
		DstDir:       dstDir,
		ConfigPath:   h.deps.ConfigPath(),
		OutputWriter: &buf,
		DiffSettings: settings,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("directory diff failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// HandleParseTree handles the parse_tree tool
func (h *HandlerSet) HandleParseTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, err := requiredPath(args, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := outputFormat(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	err = h.deps.BuildParseUseCase().Execute(ctx, app.ParseRequest{
		Path:         path,
		OutputFormat: format,
		Color:        domain.ColorNever,
		OutputWriter: &buf,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// requiredPath reads a string argument naming an existing path
func requiredPath(args map[string]interface{}, key string) (string, error) {
	path, ok := args[key].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("%s parameter is required and must be a string", key)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("path does not exist: %s", path)
	}
	return path, nil
}

// outputFormat reads the optional format argument; tools default to JSON
func outputFormat(args map[string]interface{}) (domain.OutputFormat, error) {
	raw, ok := args["format"].(string)
	if !ok || raw == "" {
		return domain.OutputFormatJSON, nil
	}
	return domain.ParseOutputFormat(raw)
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
