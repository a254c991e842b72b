package internal

import "strings"

const (
	DefaultStartMarker = "<|im_start|>"
	DefaultEndMarker   = "<|im_end|>"
)

// Markup holds the tokens that open and close a turn
type Markup struct {
	Start string
	End   string
}

// DefaultMarkup returns the ChatML markers
func DefaultMarkup() Markup {
	return Markup{Start: DefaultStartMarker, End: DefaultEndMarker}
}

// FormatSession renders a session as newline-separated turns of the form
// <start>author\ntext<end>
func (m Markup) FormatSession(session Session) Record {
	var sb strings.Builder
	for i, msg := range session {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.Start)
		sb.WriteString(msg.Author)
		sb.WriteString("\n")
		sb.WriteString(msg.Text)
		sb.WriteString(m.End)
	}
	return Record{Text: sb.String()}
}

// FormatSessions renders every session in order
func (m Markup) FormatSessions(sessions []Session) []Record {
	records := make([]Record, 0, len(sessions))
	for _, session := range sessions {
		records = append(records, m.FormatSession(session))
	}
	return records
}
