// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the coredev MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Core Developer Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_core_developers ---
	s.AddTool(mcp.NewTool("get_core_developers",
		mcp.WithDescription("Analyze git history and collaboration data to find the core developers of each time window."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithNumber("batch_months", mcp.Description("Length of each time window in months. Defaults to the whole history.")),
		mcp.WithNumber("max_distance", mcp.Description("Maximum identity distance (0 or more) for merging author aliases.")),
		mcp.WithString("signal", mcp.Description("Only report this collaboration signal."),
			mcp.Enum("commit", "pr", "issue", "issue_pr", "core_dev")),
	), h.handleGetCoreDevelopers)

	// --- 2. Tool: get_aliases ---
	s.AddTool(mcp.NewTool("get_aliases",
		mcp.WithDescription("Group the author identities of a repository into canonical aliases."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("max_distance", mcp.Description("Maximum identity distance (0 or more) for merging author aliases.")),
	), h.handleGetAliases)

	return s
}

// StartMCPServer starts the coredev MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
