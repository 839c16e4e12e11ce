package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/undid-go/undid/core"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/loader"
	"github.com/undid-go/undid/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// calendarOverrides applies the date format and frequency arguments shared by every tool.
func calendarOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	return contract.RevalidateCalendar(cfg,
		request.GetString("date_format", ""),
		request.GetString("freq", ""),
		request.GetInt("freq_multiplier", 0),
	)
}

func (h *toolHandler) handleCreateDiffSpec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := calendarOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid calendar parameters: %v", err)), nil
	}
	if c := request.GetString("covariates", ""); c != "" {
		cfg.Covariates = contract.ParseCovariateList([]string{c})
	}
	if w := request.GetString("weights", ""); w != "" {
		cfg.Weighting = schema.Weighting(strings.ToLower(w))
		if _, ok := schema.ValidWeightings[cfg.Weighting]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid weights %q", w)), nil
		}
	}
	cfg.RI = request.GetBool("ri", cfg.RI)

	roster, err := h.roster(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid roster: %v", err)), nil
	}

	table, err := core.GetDiffSpecResults(ctx, cfg, roster, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(table, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// roster reads the inline CSV first and falls back to a file path.
func (h *toolHandler) roster(request mcp.CallToolRequest) ([]schema.SiloRecord, error) {
	if body := request.GetString("roster_csv", ""); strings.TrimSpace(body) != "" {
		return loader.ReadRosterCSV(strings.NewReader(body))
	}
	path := request.GetString("roster_path", h.baseCfg.RosterPath)
	if path == "" {
		return nil, fmt.Errorf("roster_csv or roster_path is required")
	}
	return loader.LoadRoster(path)
}

func (h *toolHandler) handlePeriodGrid(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := calendarOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid calendar parameters: %v", err)), nil
	}

	cohort := request.GetString("cohort", "")
	end := request.GetString("end", "")
	if cohort == "" || end == "" {
		return mcp.NewToolResultError("cohort and end are required"), nil
	}

	grid, err := core.PeriodGrid(cfg.Registry, cohort, end, core.OptionsFromConfig(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grid failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(grid, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
