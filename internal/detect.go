package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

// exportFileName is the file Telegram Desktop writes for a JSON export
const exportFileName = "result.json"

// ExportLocation is a JSON export found on disk
type ExportLocation struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ExportSearchDirs returns the directories Telegram Desktop saves exports to
// by default on this operating system
func ExportSearchDirs() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		return []string{
			filepath.Join(home, "Downloads", "Telegram Desktop"),
			filepath.Join(home, "Downloads"),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// FindExports looks for ChatExport_*/result.json below each dir, newest
// first. Missing directories are skipped.
func FindExports(dirs []string) ([]ExportLocation, error) {
	seen := make(map[string]bool)
	var found []ExportLocation

	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "ChatExport_*", exportFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			found = append(found, ExportLocation{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ModTime.After(found[j].ModTime)
	})

	if len(found) == 0 {
		LogDebug("No exports found in %d director(ies)", len(dirs))
	}
	return found, nil
}

// DetectExports searches the default export directories
func DetectExports() ([]ExportLocation, error) {
	dirs, err := ExportSearchDirs()
	if err != nil {
		return nil, err
	}
	return FindExports(dirs)
}
