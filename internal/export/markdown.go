package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chatprep/internal"
)

// MarkdownExporter renders records for human review. Turn text goes into
// fenced blocks so the markup survives rendering.
type MarkdownExporter struct{}

// Export writes records as Markdown sections
func (e *MarkdownExporter) Export(records []internal.Record, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Training records\n\n**Records:** %d\n\n", len(records)); err != nil {
		return err
	}

	for i, record := range records {
		fence := Fence(record.Text)
		if _, err := fmt.Fprintf(w, "## Record %d\n\n%s\n%s\n%s\n\n", i+1, fence, record.Text, fence); err != nil {
			return err
		}
	}

	return nil
}

// Fence returns a backtick fence longer than any run inside text
func Fence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
