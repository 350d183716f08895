package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/testutil"
)

// testNow is a Wednesday; this_week starts on Monday 2024-03-04.
var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

// newTestOptions returns options over a fresh database in a temp working
// directory, so no worklens.yaml from the caller's tree is picked up.
func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return &RootOptions{
		Format:   format,
		Database: filepath.Join(dir, "test.db"),
		Clock:    testutil.NewFixedClock(testNow).Now,
		IDs:      testutil.NewSequenceGenerator("req"),
	}
}

// fixturePath returns the absolute path of the shared store fixtures.
// Call it before newTestOptions changes the working directory.
func fixturePath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "store", "testdata", "fixtures.yaml"))
	require.NoError(t, err)
	return path
}

// newFixtureOptions is newTestOptions with the store fixtures imported.
func newFixtureOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	fixtures := fixturePath(t)
	opts := newTestOptions(t, format)
	_, err := runCommand(t, NewImportCommand(opts), fixtures)
	require.NoError(t, err)
	return opts
}

// writeRequest writes a request document into the working directory.
func writeRequest(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

// runCommand executes cmd with args and returns its stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// decodeResponse parses a JSON CLI response.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// dataMap returns the response payload as a JSON object.
func dataMap(t *testing.T, resp CLIResponse) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
