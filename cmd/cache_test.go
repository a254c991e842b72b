package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCommand(t *testing.T) {
	dir := t.TempDir()
	input := recentExport(t, dir, true)
	cacheDir := filepath.Join(dir, "cache")

	out, err := executeCommand(t, "cache", "--cache-dir", cacheDir, "-i", input)
	require.NoError(t, err)
	assert.Contains(t, out, "No cache found")

	_, err = executeCommand(t, "chats", "--cache-dir", cacheDir, "-i", input)
	require.NoError(t, err)

	out, err = executeCommand(t, "cache", "--cache-dir", cacheDir, "-i", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Target:    Alice")
	assert.Contains(t, out, "Chats:     2")
	assert.Contains(t, out, "messages")
	assert.Contains(t, out, "Up to date")

	out, err = executeCommand(t, "cache", "--cache-dir", cacheDir, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")

	_, statErr := os.Stat(filepath.Join(cacheDir, "index.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}
