package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/chatprep/internal"
	"github.com/iksnae/chatprep/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrepareCommand(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, true)
	output := filepath.Join(dir, "out", "training_data.jsonl")
	reportPath := filepath.Join(dir, "report.yaml")

	out, err := executeCommand(t, "prepare",
		"--input", input,
		"--output", output,
		"--report", reportPath,
		"--no-cache",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Run summary")

	lines := testutil.ReadLines(t, output)
	require.Len(t, lines, 2)

	var first, second internal.Record
	testutil.JSONUnmarshal(t, []byte(lines[0]), &first)
	testutil.JSONUnmarshal(t, []byte(lines[1]), &second)
	assert.Equal(t, "<|im_start|>Bob\n>>>question<|im_end|>\n<|im_start|>Alice\n>>>answer<|im_end|>", first.Text)
	assert.Equal(t, "<|im_start|>Carol\n>>>standup<|im_end|>\n<|im_start|>Bob\n>>>here<|im_end|>\n<|im_start|>Alice\n>>>me too\n>>>late<|im_end|>", second.Text)
	assert.Contains(t, lines[0], "<|im_start|>", "markers must not be escaped")

	report, err := internal.LoadReport(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "Alice", report.Target)
	assert.Equal(t, 2, report.ChatsLoaded)
	assert.Equal(t, 3, report.Sessions)
	assert.Equal(t, 2, report.SessionsRetained)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, input, report.Source)
	assert.False(t, report.FromCache)
}

func TestPrepareCommand_TargetOverride(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, false)
	output := filepath.Join(dir, "out.jsonl")

	_, err := executeCommand(t, "prepare", "-i", input, "-o", output, "--no-cache", "--target-name", "Bob")
	require.NoError(t, err)

	lines := testutil.ReadLines(t, output)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Carol")
}

func TestPrepareCommand_UnresolvedTarget(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, false)
	output := filepath.Join(dir, "out.jsonl")

	_, err := executeCommand(t, "prepare", "-i", input, "-o", output, "--no-cache")
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrTargetUnresolved)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestPrepareCommand_AllowMissingTarget(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, false)
	output := filepath.Join(dir, "out.jsonl")

	_, err := executeCommand(t, "prepare", "-i", input, "-o", output, "--no-cache", "--allow-missing-target")
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestPrepareCommand_YAMLFormat(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, true)
	output := filepath.Join(dir, "out.yaml")

	_, err := executeCommand(t, "prepare", "-i", input, "-o", output, "--no-cache", "-f", "yaml")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var records []internal.Record
	require.NoError(t, yaml.Unmarshal(data, &records))
	assert.Len(t, records, 2)
}

func TestPrepareCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, true)

	tests := []struct {
		name    string
		args    []string
		wantKey string
	}{
		{"zero months", []string{"--last-x-months", "0"}, "last_x_months"},
		{"zero threshold", []string{"--session-minutes-threshold", "0"}, "session_minutes_threshold"},
		{"bad format", []string{"--format", "csv"}, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"prepare", "-i", input, "-o", filepath.Join(dir, "x.jsonl"), "--no-cache"}, tt.args...)
			_, err := executeCommand(t, args...)
			var cfgErr *internal.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestPrepareCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand(t, "prepare", "-i", filepath.Join(dir, "absent.json"), "-o", filepath.Join(dir, "o.jsonl"), "--no-cache")

	var storageErr *internal.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestPrepareCommand_UsesCache(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, true)
	cacheDir := filepath.Join(dir, "cache")
	reportPath := filepath.Join(dir, "report.yaml")

	args := []string{"prepare", "-i", input, "-o", filepath.Join(dir, "o.jsonl"), "--cache-dir", cacheDir, "--report", reportPath}
	_, err := executeCommand(t, args...)
	require.NoError(t, err)

	_, err = executeCommand(t, args...)
	require.NoError(t, err)

	report, err := internal.LoadReport(reportPath)
	require.NoError(t, err)
	assert.True(t, report.FromCache)
	assert.Equal(t, 2, report.Records)
}
