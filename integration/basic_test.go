//go:build basic

// Package integration contains integration tests for octocred.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOctocredVersion verifies that the binary reports its version details.
func TestOctocredVersion(t *testing.T) {
	octocredPath := getOctocredBinary()
	cmd := exec.Command(octocredPath, "version")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Contains(t, string(output), "octocred CLI")
	assert.Contains(t, string(output), "Version:")
	assert.Contains(t, string(output), "Runtime:")
}

// TestOctocredHistoryCSVRoundTrip exercises the history commands with the
// default CSV backend against a dedicated history file.
func TestOctocredHistoryCSVRoundTrip(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.csv")
	_ = os.Setenv("OCTOCRED_HISTORY_BACKEND", "csv")
	_ = os.Setenv("OCTOCRED_HISTORY_DB_CONNECT", historyPath)
	defer func() { _ = os.Unsetenv("OCTOCRED_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("OCTOCRED_HISTORY_DB_CONNECT") }()

	// Run octocred history clear
	err := runOctocredCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run octocred history status
	err = runOctocredCommand(t, "history", "status")
	require.NoError(t, err)

	// Run octocred history list
	err = runOctocredCommand(t, "history", "list")
	require.NoError(t, err)

	// An empty store still leaves the CSV header behind
	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,timestamp,username"))
}

// TestOctocredAnalyzeRejectsBadInput verifies argument validation without
// touching the network.
func TestOctocredAnalyzeRejectsBadInput(t *testing.T) {
	octocredPath := getOctocredBinary()

	// Missing repository argument
	cmd := exec.Command(octocredPath, "analyze", "octocat")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "requires at least 2 arg")
}
