package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/framekit/memutils"
)

// executeCommand runs the root command with args and returns what it printed to stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestRunReport(t *testing.T) {
	out, err := executeCommand(t, "run", "--json=false", "--frames", "30", "--constants", "8",
		"--retires", "4", "--ring-capacity", "1024", "--tables", "16", "--table-size", "8", "--validate")
	require.NoError(t, err)
	require.Contains(t, out, "Simulated 30 frames")
	require.Contains(t, out, "retired descriptors: 120")
	require.Contains(t, out, "pending releases:    0")
}

func TestRunJSON(t *testing.T) {
	out, err := executeCommand(t, "run", "--json", "--frames", "12", "--detailed",
		"--ring-capacity", "1024", "--tables", "4", "--table-size", "8")
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats), out)
	require.Contains(t, stats, "PersistentHeaps")
	require.Contains(t, stats, "TransientRing")
	require.Contains(t, stats, "FrameConstants")
	require.Contains(t, stats, "ReleaseQueue")
}

func TestRunRingExhaustion(t *testing.T) {
	_, err := executeCommand(t, "run", "--json=false", "--frames", "5",
		"--ring-capacity", "16", "--tables", "4", "--table-size", "8")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrOutOfDescriptorSpace))
	require.NotEmpty(t, errors.GetAllHints(err))
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "framesim dev")
}
