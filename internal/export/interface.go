package export

import (
	"fmt"
	"io"

	"github.com/iksnae/chatprep/internal"
)

// Exporter defines the interface for all dataset formats
type Exporter interface {
	Export(records []internal.Record, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// Formats lists the accepted format names
func Formats() []string {
	return []string{"jsonl", "json", "yaml", "md", "markdown"}
}
