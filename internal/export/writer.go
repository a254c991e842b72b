package export

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/iksnae/chatprep/internal"
)

// WriteFile exports records to path, replacing any existing file. Output goes
// to a temp file in the same directory first and is renamed into place, so a
// failed run never leaves a partial dataset behind.
func WriteFile(path string, exporter Exporter, records []internal.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &internal.StorageError{Path: dir, Op: "mkdir", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &internal.StorageError{Path: path, Op: "create", Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := exporter.Export(records, bw); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &internal.StorageError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &internal.StorageError{Path: path, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &internal.StorageError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &internal.StorageError{Path: path, Op: "rename", Err: err}
	}
	committed = true

	internal.LogInfo("Took %d chat sessions and wrote them to '%s'.", len(records), path)
	return nil
}
