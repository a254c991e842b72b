package cmd

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/chatprep/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand(t *testing.T) {
	input := recentExport(t, t.TempDir(), true)

	out, err := executeCommand(t, "check", "-i", input, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 chat(s)")
	assert.Contains(t, out, "Detected target 'Alice'")
	assert.Contains(t, out, "Cache disabled")
	assert.Contains(t, out, "Check passed")
}

func TestCheckCommand_Failures(t *testing.T) {
	dir := t.TempDir()
	noSelf := recentExport(t, dir, false)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing export", []string{"check", "-i", filepath.Join(dir, "absent.json"), "--no-cache"}, errCheckFailed},
		{"no target", []string{"check", "-i", noSelf, "--no-cache"}, internal.ErrTargetUnresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckCommand_TargetOverride(t *testing.T) {
	input := recentExport(t, t.TempDir(), false)

	out, err := executeCommand(t, "check", "-i", input, "--no-cache", "--target-name", "Bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Target set to 'Bob'")
}
