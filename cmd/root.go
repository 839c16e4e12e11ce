package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/runstore"
	"github.com/undid-go/undid/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global run store manager instance.
var storeManager contract.StoreManager = runstore.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "undid",
	Short: "Build difference specifications for UNDID studies.",
	Long: `undid prepares the first stage of a difference-in-differences study run
across silos that cannot share their raw data.

From a roster of silos with their treatment times and observation windows,
it works out whether adoption is common or staggered and writes the table
of comparisons every silo must fill in locally.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("UNDID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("date-format", contract.DefaultDateFormat)
	viper.SetDefault("freq", contract.DefaultFreq)
	viper.SetDefault("freq-multiplier", contract.DefaultFreqMultiplier)
	viper.SetDefault("weights", string(schema.StandardWeighting))
	viper.SetDefault("ri", "yes")
	viper.SetDefault("output", string(schema.CSVOut))
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", string(schema.InfoLevel))
	viper.SetDefault("runs-backend", string(schema.NoneBackend))
	viper.SetDefault("runs-db-connect", "")
}

// loadConfigFile points viper at --config or .undid.yaml and reads it if present.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".undid")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RosterPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, calendar.NewRegistry(), input); err != nil {
		return err
	}
	contract.SetupLogger(cfg.LogLevel, cfg.UseColors)

	// 5. Initialize the run store with validated config
	if err := runstore.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
