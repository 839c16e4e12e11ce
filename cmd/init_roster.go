package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/undid-go/undid/core"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/loader"
	"github.com/undid-go/undid/schema"
)

// initCmd writes a roster template from --silo flags.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a roster template from silo flags.",
	Long: `Create the roster file that every other command reads.

Each --silo flag adds one row in the form name,treatment,start,end with an
optional fifth field of semicolon separated covariates. Use "control" as the
treatment of silos that never adopt.

The roster is checked against the current date settings. Problems are logged
as warnings and the template is still written so it can be edited further.
An --output-file ending in .xlsx produces a workbook instead of CSV.

Examples:
  # Two treated silos and a control
  undid init --silo 71,1991,1989,2000 --silo 73,1993,1989,2000 --silo 58,control,1989,2000 --output-file silos.csv

  # Workbook with covariates
  undid init --silo A,2010,2000,2020,age;income --silo B,control,2000,2020 --output-file silos.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		silos, err := cmd.Flags().GetStringArray("silo")
		if err != nil {
			contract.LogFatal("Error reading --silo flags", err)
		}
		roster, err := parseSiloFlags(silos)
		if err != nil {
			contract.LogFatal("Invalid --silo value", err)
		}
		if err := core.ExecuteInit(rootCtx, cfg, roster); err != nil {
			contract.LogFatal("Failed to write roster template", err)
		}
	},
}

// parseSiloFlags turns name,treatment,start,end[,covariates] values into roster records.
func parseSiloFlags(values []string) ([]schema.SiloRecord, error) {
	if len(values) == 0 {
		return nil, schema.NewSpecError(schema.ErrRoster, "at least one --silo is required")
	}
	rows := [][]string{schema.RosterColumns}
	for _, v := range values {
		fields := strings.Split(v, ",")
		if len(fields) < 4 || len(fields) > len(schema.RosterColumns) {
			return nil, schema.NewSpecError(schema.ErrRoster, "%q must be name,treatment,start,end[,covariates]", v)
		}
		row := make([]string, len(schema.RosterColumns))
		copy(row, fields)
		rows = append(rows, row)
	}
	return loader.ParseRosterRows(rows)
}
