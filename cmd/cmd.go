// Package cmd defines the command-line interface for undid.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("date-format", contract.DefaultDateFormat, "Date format of every roster date (e.g. yyyy, yyyy-mm-dd, ddmonyyyy)")
	rootCmd.PersistentFlags().String("freq", contract.DefaultFreq, "Period frequency: yearly or monthly or weekly or daily")
	rootCmd.PersistentFlags().Int("freq-multiplier", contract.DefaultFreqMultiplier, "Number of frequency units per period")
	rootCmd.PersistentFlags().StringSlice("covariates", nil, "Covariate names applied to every silo (overrides the roster column)")
	rootCmd.PersistentFlags().String("weights", string(schema.StandardWeighting), "Weighting scheme recorded for stage three")
	rootCmd.PersistentFlags().String("ri", "yes", "Add randomization-inference rows to staggered designs (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("output", string(schema.CSVOut), "Output format: csv or json or parquet or text")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", string(schema.InfoLevel), "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of initCmd to Viper
	initCmd.Flags().StringArray("silo", nil, "Silo row as name,treatment,start,end[,cov;cov] (repeatable)")
	if err := viper.BindPFlags(initCmd.Flags()); err != nil {
		contract.LogFatal("Error binding init flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
