package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/runstore"
	"github.com/undid-go/undid/schema"
)

// runsConfigSetup loads the run tracking settings without opening the store.
// Clearing and migrating must work on a missing or outdated database.
func runsConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run tracking config values
	backendStr := viper.GetString("runs-backend")
	connStr := viper.GetString("runs-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup loads the run tracking settings and opens the store.
func runsSetup() error {
	if err := runsConfigSetup(); err != nil {
		return err
	}
	if err := runstore.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}
	return nil
}

func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

func runsConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsConfigSetup()
}

// runsCmd focused on recorded build management.
//
// Note: runs subcommands skip sharedSetup. They need no roster and no
// calendar settings, only the backend and its connection string.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded specification builds",
	Long: `Manage the history of specification builds kept by run tracking.

When --runs-backend is set, every successful create stores:
- Run metadata (timestamp, configuration, duration, design)
- Every comparison row of the built specification

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run tracking statistics
  export  - Export recorded builds to Parquet
  clear   - Remove all recorded builds
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  undid runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  undid runs export --runs-backend sqlite --output-file undid-runs`,
}

// runsClearCmd clears the recorded builds.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded specification builds",
	Long: `Delete every stored run and its specification rows.

For SQLite the database file is removed. For MySQL and PostgreSQL the run
tables and the migration history are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  undid runs export --runs-backend sqlite --output-file backup
  undid runs clear --runs-backend sqlite`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.Clear(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear recorded runs", err)
		}
		fmt.Println("Recorded runs cleared successfully.")
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show the backend, connection health, number of recorded runs, the last
and oldest run timestamps, the total rows built and the table sizes.

Examples:
  undid runs status --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", fmt.Errorf("run tracking is disabled; set --runs-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		runstore.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports recorded builds to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded builds to Parquet for analytics",
	Long: `Export every recorded run and specification row to Parquet.

Writes two files next to --output-file:
- <output-file>.design_runs.parquet - one row per build
- <output-file>.spec_rows.parquet - one row per comparison

Requires: --output-file parameter

Examples:
  undid runs export --runs-backend sqlite --output-file undid-runs
  duckdb -c "SELECT design, count(*) FROM 'undid-runs.design_runs.parquet' GROUP BY 1"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.Export(runstore.Manager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export recorded runs", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  undid runs migrate --runs-backend sqlite

  # Migrate to specific version
  undid runs migrate --runs-backend sqlite --target-version 1

  # Rollback to initial state
  undid runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.Migrate(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
