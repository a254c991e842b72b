package internal

import (
	"errors"
	"fmt"
)

// ErrTargetUnresolved is returned when no target name was configured and none
// could be detected from the export's self entry
var ErrTargetUnresolved = errors.New("target name could not be resolved: set --target-name or include the Saved Messages entry in the export")

// StorageError represents errors reading or writing files
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "rename"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing the export structure
type ParseError struct {
	Source string // "export", "cache"
	Key    string // file path or cache key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors while writing the dataset
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Key, e.Reason)
}
