package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/schema"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		input    schema.Treat
		expected string
	}{
		{schema.TreatedTreat, TreatedValue},
		{schema.ControlTreat, ControlValue},
		{schema.RITreat, RIValue},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	// Labels keep their text whether or not the terminal supports color.
	assert.Contains(t, GetColorLabel(schema.TreatedTreat), TreatedValue)
	assert.Contains(t, GetColorLabel(schema.ControlTreat), ControlValue)
	assert.Contains(t, GetColorLabel(schema.RITreat), RIValue)
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path is stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("path creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spec.csv")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		assert.FileExists(t, path)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "nope", "spec.csv"))
		assert.Error(t, err)
	})
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{" False ", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCovariateList(t *testing.T) {
	assert.Nil(t, ParseCovariateList(nil))
	assert.Nil(t, ParseCovariateList([]string{"", " ; , "}))
	assert.Equal(t, []string{"asian", "black"}, ParseCovariateList([]string{"asian;black"}))
	assert.Equal(t, []string{"asian", "black", "male"}, ParseCovariateList([]string{"asian, black", "black;male"}))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "silo", TruncateName("silo", 10))
	assert.Equal(t, "very...", TruncateName("very_long_silo", 7))
	assert.Equal(t, "very_long_silo", TruncateName("very_long_silo", 3))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", slogLevel(schema.DebugLevel).String())
	assert.Equal(t, "INFO", slogLevel(schema.InfoLevel).String())
	assert.Equal(t, "WARN", slogLevel(schema.WarnLevel).String())
	assert.Equal(t, "ERROR", slogLevel(schema.ErrorLevel).String())
	assert.Equal(t, "INFO", slogLevel("").String())
}
