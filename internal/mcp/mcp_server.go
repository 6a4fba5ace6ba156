// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/octocred/octocred/internal/contract"
)

// NewMCPServer initializes and configures the eligibility MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.RepoClient, store contract.HistoryStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Octocred Eligibility Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		store:   store,
	}

	// --- 1. Tool: analyze_applicant ---
	s.AddTool(mcp.NewTool("analyze_applicant",
		mcp.WithDescription("Evaluate whether a GitHub user qualifies for a cloud-credit grant based on their repository activity."),
		mcp.WithString("username", mcp.Description("GitHub login of the applicant."), mcp.Required()),
		mcp.WithString("repositories", mcp.Description("Comma-separated repository references (URLs or owner/name)."), mcp.Required()),
		mcp.WithNumber("window_days", mcp.Description("Activity window in days. Defaults to the configured window.")),
		mcp.WithString("notes", mcp.Description("Reviewer notes to attach to the stored application record.")),
	), h.handleAnalyzeApplicant)

	// --- 2. Tool: query_history ---
	s.AddTool(mcp.NewTool("query_history",
		mcp.WithDescription("Query stored application history, optionally filtered to one applicant."),
		mcp.WithString("username", mcp.Description("GitHub login to filter by. Omit to list every application.")),
	), h.handleQueryHistory)

	// --- 3. Tool: history_status ---
	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report the history store backend, record counts and record time range."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the eligibility MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.RepoClient, store contract.HistoryStore) error {
	s := NewMCPServer(baseCfg, client, store)
	return server.ServeStdio(s)
}
