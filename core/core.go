// Package core has core logic for building difference specifications.
package core

import (
	"context"
	"time"

	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/loader"
	"github.com/undid-go/undid/internal/outwriter"
	"github.com/undid-go/undid/schema"
)

// OptionsFromConfig maps the validated config onto build options.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		DateFormat:     cfg.DateFormat,
		Freq:           cfg.Freq,
		FreqMultiplier: cfg.FreqMultiplier,
		Covariates:     cfg.Covariates,
		Weighting:      cfg.Weighting,
		RI:             cfg.RI,
	}
}

// ExecuteCreate builds the specification for the roster at cfg.RosterPath,
// records the run when a store is configured, and writes the table out.
// It serves as the main entry point for the 'create' command.
func ExecuteCreate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	roster, err := loader.LoadRoster(cfg.RosterPath)
	if err != nil {
		return err
	}
	table, err := GetDiffSpecResults(ctx, cfg, roster, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSpec(table, cfg, time.Since(start))
}

// GetDiffSpecResults builds the specification for roster and records the
// run when a store is configured. Nothing is written out.
func GetDiffSpecResults(ctx context.Context, cfg *contract.Config, roster []schema.SiloRecord, mgr contract.StoreManager) (*schema.SpecTable, error) {
	start := time.Now()
	table, err := CreateDiffSpec(cfg.Registry, roster, OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recordRun(mgr, cfg, table, start)
	return table, nil
}

// ExecuteGrid previews the post periods and baseline of one cohort.
func ExecuteGrid(_ context.Context, cfg *contract.Config, cohort, end string) error {
	grid, err := PeriodGrid(cfg.Registry, cohort, end, OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	return outwriter.WriteGrid(grid, cfg)
}

// ExecuteInspect reads a persisted specification, checks it, and prints
// how many rows each silo must fill in.
func ExecuteInspect(_ context.Context, cfg *contract.Config, path string) error {
	table, err := loader.LoadSpecCSV(path)
	if err != nil {
		return err
	}
	if err := VerifySpec(cfg.Registry, table); err != nil {
		return err
	}
	return outwriter.WriteSummary(schema.Summarize(table), table, cfg)
}

// ExecuteInit writes a roster template. The roster does not have to build
// yet; problems are reported as warnings so the user can keep editing.
func ExecuteInit(_ context.Context, cfg *contract.Config, roster []schema.SiloRecord) error {
	if _, err := CreateDiffSpec(cfg.Registry, roster, OptionsFromConfig(cfg)); err != nil {
		contract.LogWarn("Roster template does not build a specification yet", err)
	}
	return outwriter.WriteRoster(roster, cfg)
}

// recordRun stores a finished build. Tracking failures never fail the build.
func recordRun(mgr contract.StoreManager, cfg *contract.Config, table *schema.SpecTable, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}
	runID, err := store.BeginRun(start, cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return
	}
	if runID <= 0 {
		return
	}
	if err := store.RecordRows(runID, table); err != nil {
		contract.LogWarn("Run tracking failed to record rows", err)
	}
	summary := schema.RunSummary{
		Design:    table.Design,
		TotalRows: table.Len(),
		RIRows:    table.RICount(),
		Silos:     len(table.SiloNames()),
	}
	if err := store.EndRun(runID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
		return
	}
	contract.LogInfo("Recorded specification build", "run_id", runID, "design", summary.Design, "rows", summary.TotalRows)
}
