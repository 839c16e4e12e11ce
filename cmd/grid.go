package cmd

import (
	"github.com/spf13/cobra"
	"github.com/undid-go/undid/core"
	"github.com/undid-go/undid/internal/contract"
)

// gridCmd previews the period grid of one cohort.
var gridCmd = &cobra.Command{
	Use:   "grid <cohort> <end>",
	Short: "Preview the post periods compared against one cohort's baseline.",
	Long: `List every post period from a cohort's treatment time through the end of
the observation window, together with the baseline period it is compared to.

Useful for checking that --date-format, --freq and --freq-multiplier line up
with the roster before running create.

Examples:
  # Yearly cohort adopting in 1991, window ending 2000
  undid grid 1991 2000

  # Month ends, quarterly periods
  undid grid 2020-01-31 2021-12-31 --date-format yyyy-mm-dd --freq monthly --freq-multiplier 3`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteGrid(rootCtx, cfg, args[0], args[1]); err != nil {
			contract.LogFatal("Failed to build period grid", err)
		}
	},
}
