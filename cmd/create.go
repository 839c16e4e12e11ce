package cmd

import (
	"github.com/spf13/cobra"
	"github.com/undid-go/undid/core"
	"github.com/undid-go/undid/internal/contract"
)

// createCmd builds the difference specification for a roster.
var createCmd = &cobra.Command{
	Use:   "create [roster-path]",
	Short: "Build the difference specification for a silo roster.",
	Long: `Read a roster of silos and write the table of comparisons each silo must fill in.

The roster is a CSV or XLSX file with the columns silo_name, treatment_time,
start_time, end_time and optionally covariates. Control silos use "control"
as their treatment time; every date must follow --date-format.

The design is detected from the roster:
- Common adoption when every treated silo shares one treatment time
- Staggered adoption when treated silos adopt at two or more times

Staggered designs also get randomization-inference rows unless --ri no is given.

Examples:
  # Yearly roster, CSV spec on stdout
  undid create silos.csv

  # Monthly dates with a two month period
  undid create silos.csv --date-format yyyy-mm-dd --freq monthly --freq-multiplier 2

  # Write the specification to a file and record the build
  undid create silos.csv --output-file spec.csv --runs-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCreate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to build difference specification", err)
		}
	},
}
