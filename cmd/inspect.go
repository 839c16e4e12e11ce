package cmd

import (
	"github.com/spf13/cobra"
	"github.com/undid-go/undid/core"
	"github.com/undid-go/undid/internal/contract"
)

// inspectCmd summarizes a persisted specification.
var inspectCmd = &cobra.Command{
	Use:   "inspect <spec-path>",
	Short: "Check a specification file and count the rows each silo fills in.",
	Long: `Read a specification written by create and check it is still consistent.

Every row is checked for date ordering and a well formed comparison before
the per-silo counts of treated, control and randomization-inference rows
are printed. Use this on a spec that came back from a silo to make sure it
was not edited by hand.

Examples:
  # Summary table
  undid inspect spec.csv --output text

  # Machine readable summary
  undid inspect spec.csv --output json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional argument is a spec, not a roster
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteInspect(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Failed to inspect specification", err)
		}
	},
}
