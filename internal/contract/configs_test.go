package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		RosterPathStr:  "roster.csv",
		DateFormat:     "yyyy",
		Freq:           "yearly",
		FreqMultiplier: 1,
		Weights:        "standard",
		RI:             "yes",
		Output:         "csv",
		Color:          "no",
		LogLevel:       "info",
		RunsBackend:    "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	reg := calendar.NewRegistry()
	tests := []struct {
		name    string
		modify  func(*ConfigRawInput)
		wantErr error // sentinel to match, nil for success
		anyErr  bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{
			name:   "mixed case values are normalized",
			modify: func(in *ConfigRawInput) { in.DateFormat = "YYYY-MM-DD"; in.Freq = "Monthly"; in.Output = "JSON" },
		},
		{
			name:    "unknown date format",
			modify:  func(in *ConfigRawInput) { in.DateFormat = "yy" },
			wantErr: schema.ErrFormat,
		},
		{
			name:    "unknown frequency",
			modify:  func(in *ConfigRawInput) { in.Freq = "hourly" },
			wantErr: schema.ErrFrequency,
		},
		{
			name:    "zero multiplier",
			modify:  func(in *ConfigRawInput) { in.FreqMultiplier = 0 },
			wantErr: schema.ErrFrequency,
		},
		{
			name:    "multiplier too large",
			modify:  func(in *ConfigRawInput) { in.FreqMultiplier = MaxFreqMultiplier + 1 },
			wantErr: schema.ErrFrequency,
		},
		{
			name:    "frequency finer than layout",
			modify:  func(in *ConfigRawInput) { in.Freq = "weekly" },
			wantErr: schema.ErrFrequency,
		},
		{
			name:    "unknown weighting",
			modify:  func(in *ConfigRawInput) { in.Weights = "diff" },
			wantErr: schema.ErrWeighting,
		},
		{
			name:   "invalid ri flag",
			modify: func(in *ConfigRawInput) { in.RI = "maybe" },
			anyErr: true,
		},
		{
			name:   "invalid output",
			modify: func(in *ConfigRawInput) { in.Output = "xml" },
			anyErr: true,
		},
		{
			name:   "parquet without output file",
			modify: func(in *ConfigRawInput) { in.Output = "parquet" },
			anyErr: true,
		},
		{
			name:   "negative width",
			modify: func(in *ConfigRawInput) { in.Width = -1 },
			anyErr: true,
		},
		{
			name:   "missing date format",
			modify: func(in *ConfigRawInput) { in.DateFormat = "" },
			anyErr: true,
		},
		{
			name:   "mysql without connection string",
			modify: func(in *ConfigRawInput) { in.RunsBackend = "mysql" },
			anyErr: true,
		},
		{
			name:   "unknown backend",
			modify: func(in *ConfigRawInput) { in.RunsBackend = "oracle" },
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, reg, input)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := &ConfigRawInput{DateFormat: "yyyy-mm-dd", Freq: "monthly", FreqMultiplier: 3}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, calendar.NewRegistry(), input))

	assert.Equal(t, "yyyy-mm-dd", cfg.DateFormat)
	assert.Equal(t, "monthly", cfg.Freq)
	assert.Equal(t, 3, cfg.FreqMultiplier)
	assert.Equal(t, schema.StandardWeighting, cfg.Weighting)
	assert.True(t, cfg.RI)
	assert.Equal(t, schema.CSVOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.InfoLevel, cfg.LogLevel)
	assert.Equal(t, schema.NoneBackend, cfg.RunsBackend)
	assert.NotNil(t, cfg.Registry)
	assert.Empty(t, cfg.Covariates)
}

func TestProcessAndValidateCovariates(t *testing.T) {
	input := validRawInput()
	input.Covariates = []string{"asian, black", "male;asian"}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, calendar.NewRegistry(), input))
	assert.Equal(t, []string{"asian", "black", "male"}, cfg.Covariates)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/undid", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/undid", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=undid", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=undid", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateCalendar(t *testing.T) {
	base := &Config{}
	require.NoError(t, ProcessAndValidate(base, calendar.NewRegistry(), validRawInput()))

	t.Run("override frequency", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateCalendar(cfg, "yyyy-mm-dd", "Monthly", 3))
		assert.Equal(t, "yyyy-mm-dd", cfg.DateFormat)
		assert.Equal(t, "monthly", cfg.Freq)
		assert.Equal(t, 3, cfg.FreqMultiplier)
		assert.Equal(t, base.Freq, "yearly", "base config must not change")
	})

	t.Run("empty keeps current", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateCalendar(cfg, "", "", 0))
		assert.Equal(t, base.DateFormat, cfg.DateFormat)
		assert.Equal(t, base.FreqMultiplier, cfg.FreqMultiplier)
	})

	t.Run("finer than layout", func(t *testing.T) {
		cfg := base.Clone()
		err := RevalidateCalendar(cfg, "yyyy", "monthly", 1)
		assert.ErrorIs(t, err, schema.ErrFrequency)
	})

	t.Run("unknown format", func(t *testing.T) {
		cfg := base.Clone()
		err := RevalidateCalendar(cfg, "dd/mm", "", 0)
		assert.ErrorIs(t, err, schema.ErrFormat)
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Covariates: []string{"age"}, Freq: "yearly"}
	clone := cfg.Clone()
	clone.Covariates[0] = "income"
	clone.Freq = "monthly"
	assert.Equal(t, []string{"age"}, cfg.Covariates)
	assert.Equal(t, "yearly", cfg.Freq)
}
