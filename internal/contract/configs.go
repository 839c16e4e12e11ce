package contract

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

// Default values for configuration.
const (
	DefaultDateFormat     = "yyyy"
	DefaultFreq           = "yearly"
	DefaultFreqMultiplier = 1
	MaxFreqMultiplier     = 1000
)

// Config holds the runtime configuration for a build.
// This struct remains the "final, validated" config.
type Config struct {
	RosterPath string

	// Registry holds the layout and frequency tables every build resolves against
	Registry *calendar.Registry

	DateFormat     string // canonical layout token
	Freq           string // canonical frequency name
	FreqMultiplier int
	Covariates     []string
	Weighting      schema.Weighting
	RI             bool

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   schema.LogLevel

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RosterPathStr string

	DateFormat     string   `mapstructure:"date-format" validate:"required"`
	Freq           string   `mapstructure:"freq" validate:"required"`
	FreqMultiplier int      `mapstructure:"freq-multiplier"`
	Covariates     []string `mapstructure:"covariates"`
	Weights        string   `mapstructure:"weights"`
	RI             string   `mapstructure:"ri"`

	Output     string `mapstructure:"output" validate:"omitempty,oneof=csv json parquet text"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width" validate:"gte=0"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error"`

	RunsBackend   string `mapstructure:"runs-backend" validate:"omitempty,oneof=sqlite mysql postgresql none"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`
}

var validate = newValidator()

// newValidator reports field errors by their config key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ProcessAndValidate turns raw input into a validated Config.
func ProcessAndValidate(cfg *Config, reg *calendar.Registry, input *ConfigRawInput) error {
	normalizeRawInput(input)
	if err := validateShape(input); err != nil {
		return err
	}
	if err := processCalendar(cfg, reg, input); err != nil {
		return err
	}
	if err := processDesignInputs(cfg, input); err != nil {
		return err
	}
	if err := processOutputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// normalizeRawInput trims and lower-cases every enumerated value.
func normalizeRawInput(input *ConfigRawInput) {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	input.DateFormat = lower(input.DateFormat)
	input.Freq = lower(input.Freq)
	input.Weights = lower(input.Weights)
	input.RI = lower(input.RI)
	input.Output = lower(input.Output)
	input.Color = lower(input.Color)
	input.LogLevel = lower(input.LogLevel)
	input.RunsBackend = lower(input.RunsBackend)
}

// validateShape runs the struct tag checks.
func validateShape(input *ConfigRawInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("invalid %s %q. must be one of %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s %v (failed %s=%s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// processCalendar resolves the date layout and frequency.
func processCalendar(cfg *Config, reg *calendar.Registry, input *ConfigRawInput) error {
	cfg.Registry = reg

	layout, err := reg.Layout(input.DateFormat)
	if err != nil {
		return err
	}
	cfg.DateFormat = layout.Token

	if input.FreqMultiplier > MaxFreqMultiplier {
		return schema.NewSpecError(schema.ErrFrequency, "freq-multiplier cannot exceed %d (received %d)", MaxFreqMultiplier, input.FreqMultiplier)
	}
	step, err := reg.ResolveFrequency(input.Freq, input.FreqMultiplier)
	if err != nil {
		return err
	}
	if err := calendar.CheckCompatible(layout, step); err != nil {
		return err
	}
	cfg.Freq = input.Freq
	cfg.FreqMultiplier = step.Count
	return nil
}

// processDesignInputs handles covariates, weighting and randomization inference.
func processDesignInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.RosterPath = input.RosterPathStr
	cfg.Covariates = ParseCovariateList(input.Covariates)

	cfg.Weighting = schema.StandardWeighting
	if input.Weights != "" {
		cfg.Weighting = schema.Weighting(input.Weights)
	}
	if _, ok := schema.ValidWeightings[cfg.Weighting]; !ok {
		return schema.NewSpecError(schema.ErrWeighting, "invalid weights %q. must be %s", input.Weights, strings.Join(validWeightingNames(), ", "))
	}

	cfg.RI = true
	if input.RI != "" {
		ri, err := ParseBoolString(input.RI)
		if err != nil {
			return fmt.Errorf("invalid --ri value: %w", err)
		}
		cfg.RI = ri
	}
	return nil
}

// processOutputs handles output mode, destination and presentation.
func processOutputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.CSVOut
	if input.Output != "" {
		cfg.Output = schema.OutputMode(input.Output)
	}
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	cfg.Width = input.Width

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	cfg.LogLevel = schema.InfoLevel
	if input.LogLevel != "" {
		cfg.LogLevel = schema.LogLevel(input.LogLevel)
	}
	return nil
}

// validateBackendConfigs validates the run store configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunsBackend = schema.NoneBackend
	if input.RunsBackend != "" {
		cfg.RunsBackend = schema.DatabaseBackend(input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	return nil
}

// Clone returns a copy of the config that can be modified independently.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Covariates != nil {
		clone.Covariates = slices.Clone(c.Covariates)
	}
	return &clone
}

// RevalidateCalendar applies a date format, frequency and multiplier override
// to cfg with the same checks the CLI runs. Empty values keep the current setting.
func RevalidateCalendar(cfg *Config, dateFormat, freq string, multiplier int) error {
	input := &ConfigRawInput{
		DateFormat:     cfg.DateFormat,
		Freq:           cfg.Freq,
		FreqMultiplier: cfg.FreqMultiplier,
	}
	if dateFormat != "" {
		input.DateFormat = strings.ToLower(strings.TrimSpace(dateFormat))
	}
	if freq != "" {
		input.Freq = strings.ToLower(strings.TrimSpace(freq))
	}
	if multiplier > 0 {
		input.FreqMultiplier = multiplier
	}
	return processCalendar(cfg, cfg.Registry, input)
}

// ConfigParams returns the build settings recorded with each run.
func (c *Config) ConfigParams() map[string]any {
	return map[string]any{
		"roster":          c.RosterPath,
		"date_format":     c.DateFormat,
		"freq":            c.Freq,
		"freq_multiplier": c.FreqMultiplier,
		"covariates":      c.Covariates,
		"weights":         string(c.Weighting),
		"ri":              c.RI,
	}
}

func validWeightingNames() []string {
	names := make([]string, 0, len(schema.ValidWeightings))
	for w := range schema.ValidWeightings {
		names = append(names, string(w))
	}
	slices.Sort(names)
	return names
}
