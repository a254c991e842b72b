package internal

import (
	"strings"
	"unicode"
)

// MergeSession collapses consecutive messages from the same author into one.
// Every run starts with the delimiter stripped of leading whitespace, and the
// full delimiter joins each following message of the run.
func MergeSession(session Session, delimiter string) Session {
	if len(session) == 0 {
		return nil
	}

	marker := strings.TrimLeftFunc(delimiter, unicode.IsSpace)

	merged := make(Session, 0, len(session))
	var text strings.Builder
	current := session[0]
	text.WriteString(marker)
	text.WriteString(current.Text)

	for _, msg := range session[1:] {
		if msg.Author == current.Author {
			text.WriteString(delimiter)
			text.WriteString(msg.Text)
			continue
		}
		current.Text = text.String()
		merged = append(merged, current)

		current = msg
		text.Reset()
		text.WriteString(marker)
		text.WriteString(current.Text)
	}
	current.Text = text.String()
	merged = append(merged, current)

	return merged
}

// MergeSessions applies MergeSession to every session
func MergeSessions(sessions []Session, delimiter string) []Session {
	merged := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if m := MergeSession(session, delimiter); len(m) > 0 {
			merged = append(merged, m)
		}
	}
	return merged
}
