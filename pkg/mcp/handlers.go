package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
	"github.com/ormasoftchile/snipgen/pkg/suite"
)

type countEntry struct {
	Name         string `json:"name"`
	Prefix       string `json:"prefix"`
	Placeholders int    `json:"placeholders"`
	TabStops     int    `json:"tab_stops"`
	Checks       int    `json:"checks"`
}

// HandleCount implements the snipgen/count MCP tool.
func HandleCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	col, res := loadArg(req)
	if res != nil {
		return res, nil
	}

	entries := make([]countEntry, 0, col.Len())
	for _, e := range col.Entries() {
		entries = append(entries, countEntry{
			Name:         e.Name,
			Prefix:       e.Snippet.Prefix,
			Placeholders: snippet.CountPlaceholders(e.Snippet.Body),
			TabStops:     len(snippet.TabStops(e.Snippet.Body)),
			Checks:       len(suite.ContentChecks(e.Snippet.Body)),
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleGenerate implements the snipgen/generate MCP tool.
func HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	col, res := loadArg(req)
	if res != nil {
		return res, nil
	}
	args := req.GetArguments()
	path, _ := args["path"].(string)
	format, _ := args["format"].(string)
	out, _ := args["out"].(string)

	opts := suite.DefaultOptions()
	opts.Source = filepath.Base(path)
	opts.Filter, _ = args["filter"].(string)
	if pkg, _ := args["package"].(string); pkg != "" {
		opts.Package = pkg
	}

	s, err := suite.Build(col, opts)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	switch format {
	case "", "go":
		if out != "" {
			if err := suite.WriteFile(out, s); err != nil {
				return errorResult(err.Error()), nil
			}
			return textResult(fmt.Sprintf("✓ wrote %d test cases to %s", len(s.Cases), out)), nil
		}
		src, err := suite.Source(s)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(string(src)), nil
	case "json":
		var buf bytes.Buffer
		if err := suite.EncodeJSON(&buf, s); err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(buf.String()), nil
	default:
		return errorResult(fmt.Sprintf("unknown format %q, use 'go' or 'json'", format)), nil
	}
}

// HandleValidate implements the snipgen/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := req.GetArguments()["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	col, errs := snippet.ValidateFile(path)
	if snippet.HasErrors(errs) {
		return errorResult(formatErrors(errs, "error")), nil
	}
	msg := fmt.Sprintf("✓ %s is valid (%d snippets)", filepath.Base(path), col.Len())
	if warnings := formatErrors(errs, "warning"); warnings != "" {
		msg += "\nwarnings: " + warnings
	}
	return textResult(msg), nil
}

// HandleSchema implements the snipgen/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := snippet.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

func loadArg(req mcp.CallToolRequest) (*snippet.Collection, *mcp.CallToolResult) {
	path, _ := req.GetArguments()["path"].(string)
	if path == "" {
		return nil, errorResult("path argument is required")
	}
	col, err := snippet.LoadFile(path)
	if err != nil {
		return nil, errorResult(err.Error())
	}
	return col, nil
}

func formatErrors(errs []*snippet.ValidationError, severity string) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == severity {
			msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
