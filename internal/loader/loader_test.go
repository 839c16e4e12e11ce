package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/schema"
)

const rosterCSV = `silo_name,treatment_time,start_time,end_time,covariates
71,1991,1989,2000,asian;black
58,control,1989,2000,
`

func TestReadRosterCSV(t *testing.T) {
	roster, err := ReadRosterCSV(strings.NewReader(rosterCSV))
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, schema.SiloRecord{SiloName: "71", TreatmentTime: "1991", StartTime: "1989", EndTime: "2000", Covariates: "asian;black"}, roster[0])
	assert.Equal(t, "58", roster[1].SiloName)
	assert.True(t, roster[1].IsControl())
	assert.Empty(t, roster[1].Covariates)
}

func TestReadRosterCSVHeaderVariants(t *testing.T) {
	in := "\ufeffEnd_Time, Silo_Name ,Treatment_Time,Start_Time\n2000,A,control,1989\n\n,,,\n2000,B,1991,1989\n"
	roster, err := ReadRosterCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "A", roster[0].SiloName)
	assert.Equal(t, "2000", roster[0].EndTime)
	assert.Equal(t, "1991", roster[1].TreatmentTime)
}

func TestReadRosterCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"missing end_time", "silo_name,treatment_time,start_time\nA,control,1989\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRosterCSV(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, schema.ErrRoster)
		})
	}
}

func TestLoadRoster(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "roster.CSV")
		require.NoError(t, os.WriteFile(path, []byte(rosterCSV), 0o644))
		roster, err := LoadRoster(path)
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	})

	t.Run("xlsx", func(t *testing.T) {
		path := filepath.Join(dir, "roster.xlsx")
		want := []schema.SiloRecord{
			{SiloName: "71", TreatmentTime: "1991", StartTime: "1989", EndTime: "2000", Covariates: "asian"},
			{SiloName: "58", TreatmentTime: "control", StartTime: "1989", EndTime: "2000"},
		}
		require.NoError(t, WriteRosterXLSX(path, want))
		roster, err := LoadRoster(path)
		require.NoError(t, err)
		assert.Equal(t, want, roster)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadRoster(filepath.Join(dir, "roster.txt"))
		assert.ErrorIs(t, err, schema.ErrRoster)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRoster(filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})
}

func TestReadSpecCSV(t *testing.T) {
	header := strings.Join(schema.StaggeredColumns, ",")
	in := header + "\n" +
		"71,1991,1,1991;1990,1991;1991,0,1989,2000,,,,,none,yyyy,year\n" +
		"58,1991,0,1992;1990,1991;1992,0,1989,2000,0.5,,NA,,none,yyyy,year\n"
	table, err := ReadSpecCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, schema.StaggeredDesign, table.Design)
	require.Len(t, table.Staggered, 2)
	assert.Equal(t, "1990", table.Staggered[1].Pre())
	require.NotNil(t, table.Staggered[1].DiffEstimate)
	assert.InDelta(t, 0.5, *table.Staggered[1].DiffEstimate, 1e-9)
	assert.Nil(t, table.Staggered[1].DiffEstimateCovariates)
}

func TestReadSpecCSVCommon(t *testing.T) {
	header := strings.Join(schema.CommonColumns, ",")
	in := header + "\nA,0,1991,1989,2000,standard,,,,,none,yyyy,year\n"
	table, err := ReadSpecCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, schema.CommonDesign, table.Design)
	require.Len(t, table.Common, 1)
	assert.Equal(t, schema.StandardWeighting, table.Common[0].Weights)
}

func TestLoadSpecCSVErrors(t *testing.T) {
	_, err := LoadSpecCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = ReadSpecCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, schema.ErrRoster)

	_, err = ReadSpecCSV(strings.NewReader("silo_name,treat\nA,1\n"))
	assert.ErrorIs(t, err, schema.ErrRoster)
}
