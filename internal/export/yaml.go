package export

import (
	"io"

	"github.com/iksnae/chatprep/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes records as a YAML sequence
type YAMLExporter struct{}

// Export writes records in YAML format
func (e *YAMLExporter) Export(records []internal.Record, w io.Writer) error {
	if records == nil {
		records = []internal.Record{}
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(records)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
