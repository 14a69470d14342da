// Package mcp exposes snipgen operations as MCP tools for AI agents.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with the snipgen tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"snipgen",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("snipgen/count",
			mcp.WithDescription("List snippets with their counted placeholders and distinct tab stops"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the snippet file (.code-snippets, .json or .yaml)")),
		),
		HandleCount,
	)

	s.AddTool(
		mcp.NewTool("snipgen/generate",
			mcp.WithDescription("Generate the Go end-to-end test suite for a snippet file"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the snippet file")),
			mcp.WithString("format", mcp.Description("Output format: go (default) or json")),
			mcp.WithString("filter", mcp.Description("Optional expr filter, e.g. scope == \"html\"")),
			mcp.WithString("package", mcp.Description("Package clause of the generated file (default e2e)")),
			mcp.WithString("out", mcp.Description("Write the generated file here instead of returning it")),
		),
		HandleGenerate,
	)

	s.AddTool(
		mcp.NewTool("snipgen/validate",
			mcp.WithDescription("Validate a snippet file: structure, JSON Schema and placeholder warnings"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the snippet file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("snipgen/schema",
			mcp.WithDescription("Export the JSON Schema for snippet files"),
		),
		HandleSchema,
	)

	return s
}
