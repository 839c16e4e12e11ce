package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/internal/contract"
	"github.com/undid-go/undid/internal/loader"
	"github.com/undid-go/undid/schema"
)

func testMeta() schema.Metadata {
	return schema.Metadata{Covariates: "asian;black", DateFormat: "yyyy", Freq: "year"}
}

func staggeredTable() *schema.SpecTable {
	return &schema.SpecTable{
		Design: schema.StaggeredDesign,
		Staggered: []schema.ComparisonRow{
			{SiloName: "71", Gvar: "1991", Treat: schema.TreatedTreat, DiffTimes: "1991;1990", GT: "1991;1991", StartTime: "1989", EndTime: "2000", Metadata: testMeta()},
			{SiloName: "58", Gvar: "1991", Treat: schema.ControlTreat, DiffTimes: "1991;1990", GT: "1991;1991", StartTime: "1989", EndTime: "2000", Metadata: testMeta()},
			{SiloName: "72", Gvar: "1991", Treat: schema.RITreat, DiffTimes: "1991;1990", GT: "1991;1991", RI: 1, StartTime: "1989", EndTime: "2000", Metadata: testMeta()},
		},
	}
}

func commonTable() *schema.SpecTable {
	return &schema.SpecTable{
		Design: schema.CommonDesign,
		Common: []schema.CommonRow{
			{SiloName: "A", Treat: schema.ControlTreat, CommonTreatmentTime: "1991", StartTime: "1989", EndTime: "2000", Weights: schema.StandardWeighting, Metadata: testMeta()},
			{SiloName: "B", Treat: schema.TreatedTreat, CommonTreatmentTime: "1991", StartTime: "1989", EndTime: "2000", Weights: schema.StandardWeighting, Metadata: testMeta()},
		},
	}
}

func TestWriteSpecCSVRoundTrip(t *testing.T) {
	for _, table := range []*schema.SpecTable{staggeredTable(), commonTable()} {
		t.Run(string(table.Design), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeSpecCSV(&buf, table))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, table.Len()+1)
			assert.Equal(t, strings.Join(table.Header(), ","), lines[0])

			parsed, err := loader.ReadSpecCSV(&buf)
			require.NoError(t, err)
			assert.Equal(t, table, parsed)
		})
	}
}

func TestWriteSpecJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSpecJSON(&buf, staggeredTable()))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "71", rows[0]["silo_name"])
	assert.Equal(t, "1991;1991", rows[0]["gt"])
	assert.Equal(t, "-1", rows[2]["treat"])
	assert.Equal(t, float64(1), rows[2]["RI"])
	assert.Nil(t, rows[0]["diff_estimate"])
	assert.Equal(t, "year", rows[0]["freq"])

	buf.Reset()
	require.NoError(t, writeSpecJSON(&buf, &schema.SpecTable{Design: schema.CommonDesign}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteSpecTable(t *testing.T) {
	cfg := &contract.Config{Width: 120, RunsBackend: schema.NoneBackend}

	var buf bytes.Buffer
	require.NoError(t, writeSpecTable(&buf, staggeredTable(), cfg, 5*time.Millisecond))
	out := buf.String()
	assert.Contains(t, out, "Treated")
	assert.Contains(t, out, "Control")
	assert.Contains(t, out, "RI")
	assert.Contains(t, out, "Showing 3 rows (1 RI) across 3 silos. Design: staggered, frequency: year, covariates: asian;black")
	assert.Contains(t, out, "Runs backend: none")

	buf.Reset()
	require.NoError(t, writeSpecTable(&buf, commonTable(), cfg, time.Millisecond))
	assert.Contains(t, buf.String(), "standard")
	assert.Contains(t, buf.String(), "Showing 2 rows (0 RI) across 2 silos. Design: common")
}

func TestWriteSpecToFile(t *testing.T) {
	dir := t.TempDir()
	var msgs bytes.Buffer
	stderr = &msgs
	t.Cleanup(func() { stderr = os.Stderr })

	tests := []struct {
		output schema.OutputMode
		file   string
	}{
		{schema.CSVOut, "spec.csv"},
		{schema.JSONOut, "spec.json"},
		{schema.TextOut, "spec.txt"},
		{schema.ParquetOut, "spec.parquet"},
	}
	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			cfg := &contract.Config{Output: tt.output, OutputFile: path, Width: 100}
			require.NoError(t, WriteSpec(staggeredTable(), cfg, time.Millisecond))
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			assert.Contains(t, msgs.String(), path)
		})
	}

	t.Run("parquet needs a file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		assert.Error(t, WriteSpec(staggeredTable(), cfg, 0))
	})
}

func TestWriteGrid(t *testing.T) {
	grid := &schema.GridResult{Cohort: "1993", Pre: "1992", Periods: []string{"1993", "1994"}, Freq: "year", Format: "yyyy"}

	records := gridRecords(grid)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "1993", "1994", "1992", "1993;1994", "1994;1992"}, records[1])

	var buf bytes.Buffer
	require.NoError(t, writeGridTable(&buf, grid))
	assert.Contains(t, buf.String(), "Cohort 1993: 2 periods every year, baseline 1992 (yyyy)")

	path := filepath.Join(t.TempDir(), "grid.json")
	stderr = &bytes.Buffer{}
	t.Cleanup(func() { stderr = os.Stderr })
	require.NoError(t, WriteGrid(grid, &contract.Config{Output: schema.JSONOut, OutputFile: path}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got schema.GridResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *grid, got)
}

func TestWriteSummary(t *testing.T) {
	table := staggeredTable()
	summaries := schema.Summarize(table)

	records := summaryRecords(summaries)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"71", "1", "0", "0", "1", "1", "asian;black"}, records[0])
	assert.Equal(t, []string{"72", "0", "0", "1", "1", "1", "asian;black"}, records[2])

	var buf bytes.Buffer
	require.NoError(t, writeSummaryTable(&buf, summaries, table, &contract.Config{Width: 100}))
	assert.Contains(t, buf.String(), "staggered design: 3 rows across 3 silos (1 RI)")
}

func TestWriteRoster(t *testing.T) {
	stderr = &bytes.Buffer{}
	t.Cleanup(func() { stderr = os.Stderr })
	roster := []schema.SiloRecord{
		{SiloName: "A", TreatmentTime: "control", StartTime: "1989", EndTime: "2000"},
		{SiloName: "B", TreatmentTime: "1991", StartTime: "1989", EndTime: "2000", Covariates: "asian"},
	}

	for _, name := range []string{"roster.csv", "roster.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteRoster(roster, &contract.Config{OutputFile: path}))
			got, err := loader.LoadRoster(path)
			require.NoError(t, err)
			assert.Equal(t, roster, got)
		})
	}
}
