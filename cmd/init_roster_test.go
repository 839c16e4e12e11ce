package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undid-go/undid/schema"
)

func TestParseSiloFlags(t *testing.T) {
	roster, err := parseSiloFlags([]string{
		"71,1991,1989,2000",
		"58,control,1989,2000,age;income",
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.SiloRecord{
		{SiloName: "71", TreatmentTime: "1991", StartTime: "1989", EndTime: "2000"},
		{SiloName: "58", TreatmentTime: "control", StartTime: "1989", EndTime: "2000", Covariates: "age;income"},
	}, roster)
}

func TestParseSiloFlagsErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{"no silos", nil},
		{"too few fields", []string{"A,1991,1989"}},
		{"too many fields", []string{"A,1991,1989,2000,age,extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSiloFlags(tt.values)
			assert.ErrorIs(t, err, schema.ErrRoster)
		})
	}
}
