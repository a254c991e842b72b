package internal

import (
	"time"
)

// TestMessage describes a message by its offset from a base time
type TestMessage struct {
	After  time.Duration
	Author string
	Text   string
}

// CreateTestMessages builds messages at base plus each offset
func CreateTestMessages(base time.Time, specs ...TestMessage) []Message {
	messages := make([]Message, 0, len(specs))
	for _, s := range specs {
		messages = append(messages, Message{
			Timestamp: base.Add(s.After),
			Author:    s.Author,
			Text:      s.Text,
		})
	}
	return messages
}

// CreateTestSession builds a session from specs
func CreateTestSession(base time.Time, specs ...TestMessage) Session {
	return Session(CreateTestMessages(base, specs...))
}

// CreateTestChat creates a personal chat at the given export position
func CreateTestChat(name string, position int, base time.Time, specs ...TestMessage) Chat {
	return Chat{
		Name:     name,
		Kind:     ChatKindPersonal,
		Position: position,
		Messages: CreateTestMessages(base, specs...),
	}
}

// CreateTestRawMessage creates a RawMessage with one plain text entity
func CreateTestRawMessage(from, fromID, date, text string) RawMessage {
	return RawMessage{
		Type:         "message",
		Date:         date,
		From:         from,
		FromID:       fromID,
		TextEntities: []TextEntity{{Type: "plain", Text: text}},
	}
}
