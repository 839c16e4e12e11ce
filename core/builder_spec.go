package core

import (
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// Options controls a single specification build.
type Options struct {
	DateFormat     string           // layout token, e.g. "yyyy"
	Freq           string           // yearly, monthly, weekly or daily
	FreqMultiplier int              // periods per step; must be positive
	Covariates     []string         // overrides roster covariates when non-empty
	Weighting      schema.Weighting // common designs only; empty means standard
	RI             bool             // add randomization-inference rows to staggered designs
}

// SpecBuilder builds a difference specification using a builder pattern.
// Every step validates before the next one runs, so a failed build never
// leaves a partial table behind.
type SpecBuilder struct {
	reg    *calendar.Registry
	roster []schema.SiloRecord
	opts   Options

	layout calendar.Layout
	step   calendar.Step
	silos  []silo
	design Design
	rows   []comparison
	common []schema.CommonRow
	result *schema.SpecTable
}

// NewSpecBuilder creates a new builder for a roster.
func NewSpecBuilder(reg *calendar.Registry, roster []schema.SiloRecord, opts Options) *SpecBuilder {
	return &SpecBuilder{reg: reg, roster: roster, opts: opts}
}

// ResolveCalendar looks up the date layout and frequency step.
func (b *SpecBuilder) ResolveCalendar() (*SpecBuilder, error) {
	layout, err := b.reg.Layout(b.opts.DateFormat)
	if err != nil {
		return nil, err
	}
	step, err := b.reg.ResolveFrequency(b.opts.Freq, b.opts.FreqMultiplier)
	if err != nil {
		return nil, err
	}
	if err := calendar.CheckCompatible(layout, step); err != nil {
		return nil, err
	}
	b.layout, b.step = layout, step
	return b, nil
}

// ParseRoster parses every roster date and checks the ordering rules.
func (b *SpecBuilder) ParseRoster() (*SpecBuilder, error) {
	silos, err := parseRoster(b.roster, b.layout)
	if err != nil {
		return nil, err
	}
	b.silos = silos
	return b, nil
}

// ClassifyDesign detects common or staggered adoption.
func (b *SpecBuilder) ClassifyDesign() (*SpecBuilder, error) {
	d, err := classify(b.silos, b.layout, b.step)
	if err != nil {
		return nil, err
	}
	b.design = d
	return b, nil
}

// BuildRows runs the builder matching the design.
func (b *SpecBuilder) BuildRows() *SpecBuilder {
	switch d := b.design.(type) {
	case *CommonDesign:
		b.common = buildCommon(d, b.layout, normalizeWeighting(b.opts.Weighting))
	case *StaggeredDesign:
		b.rows = buildStaggered(d, b.step)
	}
	return b
}

// AugmentRI adds randomization-inference rows when enabled.
// Common designs have a single cohort and get none.
func (b *SpecBuilder) AugmentRI() (*SpecBuilder, error) {
	d, ok := b.design.(*StaggeredDesign)
	if !ok || !b.opts.RI {
		return b, nil
	}
	rows, err := augmentRI(d, b.rows)
	if err != nil {
		return nil, err
	}
	b.rows = rows
	return b, nil
}

// Assemble attaches the trailing columns and produces the final table.
func (b *SpecBuilder) Assemble() *SpecBuilder {
	meta := schema.Metadata{
		Covariates: resolveCovariates(b.opts.Covariates, b.silos),
		DateFormat: b.layout.Token,
		Freq:       b.step.String(),
	}
	switch d := b.design.(type) {
	case *CommonDesign:
		attachCommonMetadata(b.common, meta)
		b.result = &schema.SpecTable{Design: schema.CommonDesign, Common: b.common}
	case *StaggeredDesign:
		b.result = &schema.SpecTable{Design: schema.StaggeredDesign, Staggered: assembleStaggered(b.rows, d, b.layout, meta)}
	}
	return b
}

// GetDesign returns the classified design, or nil before ClassifyDesign.
func (b *SpecBuilder) GetDesign() Design {
	return b.design
}

// GetResult returns the built table, or nil before Assemble.
func (b *SpecBuilder) GetResult() *schema.SpecTable {
	return b.result
}
