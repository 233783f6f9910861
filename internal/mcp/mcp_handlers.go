package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/coredev/core"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// batchSummary is the per batch answer of get_core_developers.
type batchSummary struct {
	Index          int                        `json:"index"`
	Start          time.Time                  `json:"start"`
	End            time.Time                  `json:"end"`
	CoreDevelopers map[schema.Signal][]string `json:"core_developers"`
	Metrics        []schema.Metric            `json:"metrics"`
}

// applyCommonArgs copies the shared tool arguments onto a config clone.
func (h *toolHandler) applyCommonArgs(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if d := request.GetFloat("max_distance", -1); d != -1 {
		if d < 0 {
			return nil, fmt.Errorf("max_distance must not be negative (received %g)", d)
		}
		cfg.MaxDistance = d
	}
	return cfg, nil
}

func (h *toolHandler) handleGetCoreDevelopers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyCommonArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if m := request.GetFloat("batch_months", 0); m != 0 {
		if m < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: batch_months must be greater than 0 (received %g)", m)), nil
		}
		cfg.BatchMonths = m
	}
	signal := schema.Signal(request.GetString("signal", ""))

	result, err := core.GetAnalysisResults(core.WithSuppressOutput(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	summaries := make([]batchSummary, len(result.Batches))
	for i, b := range result.Batches {
		cores := map[schema.Signal][]string{}
		for _, s := range schema.AllSignals {
			if signal != "" && s != signal {
				continue
			}
			cores[s] = b.CoreDevelopers(s)
		}
		summaries[i] = batchSummary{
			Index:          b.Batch.Index,
			Start:          b.Batch.Start,
			End:            b.Batch.End,
			CoreDevelopers: cores,
			Metrics:        b.Metrics,
		}
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAliases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyCommonArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	groups, err := core.GetAliasResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("alias extraction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(groups, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
