package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/core/calendar"
	"github.com/undid-go/undid/internal/contract"
	mcp_internal "github.com/undid-go/undid/internal/mcp"
	"github.com/undid-go/undid/schema"
)

const rosterCSV = `silo_name,treatment_time,start_time,end_time
B,1991,1989,2000
D,1993,1989,2000
C,control,1989,2000
`

func baseConfig() *contract.Config {
	return &contract.Config{
		Registry:       calendar.NewRegistry(),
		DateFormat:     "yyyy",
		Freq:           "yearly",
		FreqMultiplier: 1,
		Weighting:      schema.StandardWeighting,
		RI:             true,
	}
}

func call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestCreateDiffSpecTool(t *testing.T) {
	t.Run("inline roster", func(t *testing.T) {
		res := call(t, "create_diff_spec", map[string]any{"roster_csv": rosterCSV})
		require.False(t, res.IsError, text(res))

		var table schema.SpecTable
		require.NoError(t, json.Unmarshal([]byte(text(res)), &table))
		assert.Equal(t, schema.StaggeredDesign, table.Design)
		assert.Len(t, table.Staggered, 54)
		assert.Equal(t, 18, table.RICount())
	})

	t.Run("ri disabled", func(t *testing.T) {
		res := call(t, "create_diff_spec", map[string]any{"roster_csv": rosterCSV, "ri": false})
		require.False(t, res.IsError, text(res))

		var table schema.SpecTable
		require.NoError(t, json.Unmarshal([]byte(text(res)), &table))
		assert.Equal(t, 0, table.RICount())
	})

	t.Run("covariate override", func(t *testing.T) {
		res := call(t, "create_diff_spec", map[string]any{"roster_csv": rosterCSV, "covariates": "age, income"})
		require.False(t, res.IsError, text(res))

		var table schema.SpecTable
		require.NoError(t, json.Unmarshal([]byte(text(res)), &table))
		assert.Equal(t, "age;income", table.Staggered[0].Covariates)
	})

	t.Run("roster path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.csv")
		require.NoError(t, os.WriteFile(path, []byte(rosterCSV), 0o644))

		res := call(t, "create_diff_spec", map[string]any{"roster_path": path})
		require.False(t, res.IsError, text(res))
	})
}

func TestCreateDiffSpecTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing roster", map[string]any{}, "roster_csv or roster_path is required"},
		{"bad freq", map[string]any{"roster_csv": rosterCSV, "freq": "hourly"}, "invalid calendar parameters"},
		{"finer than format", map[string]any{"roster_csv": rosterCSV, "freq": "monthly"}, "finer than date format"},
		{"bad weights", map[string]any{"roster_csv": rosterCSV, "weights": "heavy"}, "invalid weights"},
		{"bad roster", map[string]any{"roster_csv": "silo_name,start_time\nA,1989\n"}, "invalid roster"},
		{"one cohort no control", map[string]any{"roster_csv": "silo_name,treatment_time,start_time,end_time\nA,1991,1989,2000\n"}, "build failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, "create_diff_spec", tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestPeriodGridTool(t *testing.T) {
	res := call(t, "period_grid", map[string]any{"cohort": "1991", "end": "1994"})
	require.False(t, res.IsError, text(res))

	var grid schema.GridResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &grid))
	assert.Equal(t, "1990", grid.Pre)
	assert.Equal(t, []string{"1991", "1992", "1993", "1994"}, grid.Periods)

	t.Run("monthly override", func(t *testing.T) {
		res := call(t, "period_grid", map[string]any{
			"cohort": "2020-01-31", "end": "2020-03-31",
			"date_format": "yyyy-mm-dd", "freq": "monthly",
		})
		require.False(t, res.IsError, text(res))

		var grid schema.GridResult
		require.NoError(t, json.Unmarshal([]byte(text(res)), &grid))
		assert.Equal(t, "2019-12-31", grid.Pre)
		assert.Equal(t, []string{"2020-01-31", "2020-02-29", "2020-03-31"}, grid.Periods)
	})

	t.Run("missing end", func(t *testing.T) {
		res := call(t, "period_grid", map[string]any{"cohort": "1991"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "cohort and end are required")
	})

	t.Run("end before cohort", func(t *testing.T) {
		res := call(t, "period_grid", map[string]any{"cohort": "1995", "end": "1994"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "grid failed")
	})
}
