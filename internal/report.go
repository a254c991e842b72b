package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RunReport summarizes one pipeline run stage by stage
type RunReport struct {
	RunID                string        `yaml:"run_id"`
	StartedAt            time.Time     `yaml:"started_at"`
	Duration             time.Duration `yaml:"duration"`
	Source               string        `yaml:"source,omitempty"`
	Output               string        `yaml:"output,omitempty"`
	Format               string        `yaml:"format,omitempty"`
	FromCache            bool          `yaml:"from_cache"`
	Target               string        `yaml:"target"`
	Cutoff               time.Time     `yaml:"cutoff"`
	ChatsLoaded          int           `yaml:"chats_loaded"`
	ChatsAfterDateFilter int           `yaml:"chats_after_date_filter"`
	MessagesKept         int           `yaml:"messages_kept"`
	Sessions             int           `yaml:"sessions"`
	SessionsRetained     int           `yaml:"sessions_retained"`
	Records              int           `yaml:"records"`
}

// NewRunReport creates a report with a fresh run id
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
	}
}

// Finish records the elapsed time since the run started
func (r *RunReport) Finish(now time.Time) {
	r.Duration = now.Sub(r.StartedAt).Round(time.Millisecond)
}

// Lines returns the human-readable summary rows
func (r *RunReport) Lines() [][2]string {
	return [][2]string{
		{"Target", r.Target},
		{"Chats loaded", fmt.Sprint(r.ChatsLoaded)},
		{"Chats in window", fmt.Sprint(r.ChatsAfterDateFilter)},
		{"Messages kept", fmt.Sprint(r.MessagesKept)},
		{"Sessions", fmt.Sprint(r.Sessions)},
		{"Sessions retained", fmt.Sprint(r.SessionsRetained)},
		{"Records", fmt.Sprint(r.Records)},
		{"Duration", r.Duration.String()},
	}
}

// SaveReport writes the report as YAML
func SaveReport(r *RunReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadReport reads a report written by SaveReport
func LoadReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	var r RunReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &ParseError{Source: "report", Key: path, Err: err}
	}
	return &r, nil
}
