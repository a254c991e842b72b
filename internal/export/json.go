package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chatprep/internal"
)

// JSONExporter writes all records as one pretty-printed array
type JSONExporter struct{}

// Export writes records as a JSON array
func (e *JSONExporter) Export(records []internal.Record, w io.Writer) error {
	if records == nil {
		records = []internal.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
