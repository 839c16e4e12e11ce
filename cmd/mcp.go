package cmd

import (
	"github.com/spf13/cobra"
	"github.com/undid-go/undid/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the undid MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents build difference
specifications and preview period grids through standard tools.

The persistent flags become the defaults of every tool call. Each call may
override the date format, frequency, covariates, weights and RI setting.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
