//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedUndidPath holds the path to a shared undid binary built once for all tests.
	sharedUndidPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// rosterCSV is a staggered roster with two cohorts and one control.
const rosterCSV = `silo_name,treatment_time,start_time,end_time
71,1991,1989,2000
73,1993,1989,2000
58,control,1989,2000
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getUndidBinary returns the path to the undid binary, building it once if needed.
func getUndidBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "undid-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		undidPath := filepath.Join(tempDir, "undid")
		buildCmd := exec.Command("go", "build", "-o", undidPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build undid: %v", err))
		}

		sharedUndidPath = undidPath
	})

	return sharedUndidPath
}

// writeRoster writes rosterCSV into dir and returns its path.
func writeRoster(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "silos.csv")
	if err := os.WriteFile(path, []byte(rosterCSV), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}
	return path
}

// runUndidCommand runs the binary from dir and returns its stdout.
func runUndidCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getUndidBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(output), stderr)
		return string(output), err
	}
	return string(output), nil
}
