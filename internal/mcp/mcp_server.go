// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/undid-go/undid/internal/contract"
)

// NewMCPServer initializes and configures the undid MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"UNDID Specification Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: create_diff_spec ---
	s.AddTool(mcp.NewTool("create_diff_spec",
		mcp.WithDescription("Build the difference specification for a silo roster and return it as JSON."),
		mcp.WithString("roster_csv", mcp.Description("Inline roster CSV with columns silo_name, treatment_time, start_time, end_time and optionally covariates.")),
		mcp.WithString("roster_path", mcp.Description("Path to a roster CSV or XLSX file. Used when roster_csv is empty.")),
		mcp.WithString("date_format", mcp.Description("Date format of every date in the roster (e.g. 'yyyy', 'yyyy-mm-dd').")),
		mcp.WithString("freq", mcp.Description("Period frequency."), mcp.Enum("yearly", "monthly", "weekly", "daily")),
		mcp.WithNumber("freq_multiplier", mcp.Description("Number of frequency units per period.")),
		mcp.WithString("covariates", mcp.Description("Comma or semicolon separated covariate names. Overrides the roster column.")),
		mcp.WithString("weights", mcp.Description("Weighting scheme applied in stage three."), mcp.Enum("standard")),
		mcp.WithBoolean("ri", mcp.Description("Add randomization-inference rows for staggered designs. Defaults to true.")),
	), h.handleCreateDiffSpec)

	// --- 2. Tool: period_grid ---
	s.AddTool(mcp.NewTool("period_grid",
		mcp.WithDescription("List the post periods compared against one cohort's baseline."),
		mcp.WithString("cohort", mcp.Description("Cohort treatment date."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last date of the shared observation window."), mcp.Required()),
		mcp.WithString("date_format", mcp.Description("Date format of cohort and end.")),
		mcp.WithString("freq", mcp.Description("Period frequency."), mcp.Enum("yearly", "monthly", "weekly", "daily")),
		mcp.WithNumber("freq_multiplier", mcp.Description("Number of frequency units per period.")),
	), h.handlePeriodGrid)

	return s
}

// StartMCPServer starts the undid MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
