package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chatprep/internal"
)

// JSONLExporter writes one {"text": ...} object per line. This is the format
// the training process consumes.
type JSONLExporter struct{}

// Export writes every record as a single JSON line
func (e *JSONLExporter) Export(records []internal.Record, w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Turn markers like <|im_start|> must stay literal
	enc.SetEscapeHTML(false)

	for i, record := range records {
		buf.Reset()
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := w.Write(unescapeLineSeparators(buf.Bytes())); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// unescapeLineSeparators restores the U+2028 and U+2029 characters that
// encoding/json always escapes. Both are valid unescaped inside JSON strings.
func unescapeLineSeparators(line []byte) []byte {
	if !bytes.Contains(line, []byte(`\u202`)) {
		return line
	}

	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		if line[i] != '\\' || i+1 >= len(line) {
			out = append(out, line[i])
			continue
		}
		if line[i+1] == 'u' && i+6 <= len(line) {
			switch string(line[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// Copy the escape pair whole so an escaped backslash is never rescanned
		out = append(out, line[i], line[i+1])
		i++
	}
	return out
}
