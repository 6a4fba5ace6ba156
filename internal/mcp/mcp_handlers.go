package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/octocred/octocred/core"
	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.RepoClient
	store   contract.HistoryStore
}

// analysisPayload is the JSON shape returned by analyze_applicant.
type analysisPayload struct {
	Result  *schema.AnalysisResult     `json:"result"`
	History *schema.HistoricalAnalysis `json:"history"`
}

func (h *toolHandler) handleAnalyzeApplicant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	username := strings.TrimSpace(request.GetString("username", ""))
	if username == "" {
		return mcp.NewToolResultError("username is required"), nil
	}

	var repos []string
	for _, part := range strings.Split(request.GetString("repositories", ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			repos = append(repos, part)
		}
	}
	if len(repos) == 0 {
		return mcp.NewToolResultError("repositories is required"), nil
	}

	if wd := request.GetInt("window_days", 0); wd > 0 {
		if wd > contract.MaxWindowDays {
			return mcp.NewToolResultError(fmt.Sprintf("window_days must be at most %d", contract.MaxWindowDays)), nil
		}
		cfg.WindowDays = wd
	}
	if notes := request.GetString("notes", ""); notes != "" {
		cfg.Notes = notes
	}

	result, hist, err := core.EvaluateApplicant(ctx, cfg, h.client, h.store, username, repos)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(analysisPayload{Result: result, History: hist}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleQueryHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := strings.TrimSpace(request.GetString("username", ""))

	var records []schema.AnalysisRecord
	var err error
	if username == "" {
		records, err = h.store.QueryAll()
	} else {
		records, err = h.store.QueryByIdentity(username)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history query failed: %v", err)), nil
	}
	if records == nil {
		records = []schema.AnalysisRecord{}
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
