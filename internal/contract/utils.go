package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/undid-go/undid/schema"
)

// Treat label constants.
const (
	TreatedValue = "Treated"
	ControlValue = "Control"
	RIValue      = "RI"
)

// Color variables for console output.
var (
	TreatedColor = color.New(color.FgRed, color.Bold) // treated silo in its own cohort
	ControlColor = color.New(color.FgCyan)            // control comparison
	RIColor      = color.New(color.FgYellow)          // synthetic randomization-inference row
)

// GetPlainLabel returns a plain text label for a treat indicator.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(treat schema.Treat) string {
	switch treat {
	case schema.TreatedTreat:
		return TreatedValue
	case schema.RITreat:
		return RIValue
	default:
		return ControlValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(treat schema.Treat) string {
	text := GetPlainLabel(treat)

	switch text {
	case TreatedValue:
		return TreatedColor.Sprint(text)
	case RIValue:
		return RIColor.Sprint(text)
	default:
		return ControlColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".undid_runs.db"
	}
	return filepath.Join(homeDir, ".undid_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseCovariateList flattens comma or semicolon separated covariate names.
// Duplicates are dropped and first-seen order is kept.
func ParseCovariateList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, name := range schema.SplitSubFields(strings.ReplaceAll(v, ",", schema.SubFieldSep)) {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// TruncateName truncates a silo name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}
