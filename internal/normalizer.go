package internal

import (
	"fmt"
)

// Normalizer converts raw export entries to Chat values
type Normalizer struct {
	skipped int
}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Skipped returns how many raw messages were dropped so far
func (n *Normalizer) Skipped() int {
	return n.skipped
}

// NormalizeChat converts a named chat entry. position is the entry's index in
// the export and is kept for deterministic output ordering.
func (n *Normalizer) NormalizeChat(raw *RawChat, position int) (*Chat, error) {
	if raw == nil {
		return nil, fmt.Errorf("chat is nil")
	}

	kind, ok := ParseChatKind(raw.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported chat type %q", raw.Type)
	}

	messages := make([]Message, 0, len(raw.Messages))
	for i := range raw.Messages {
		msg, ok := n.normalizeMessage(&raw.Messages[i])
		if !ok {
			n.skipped++
			continue
		}
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("chat has no usable messages")
	}

	return &Chat{
		Name:     raw.Name.Value,
		Kind:     kind,
		Position: position,
		Messages: messages,
	}, nil
}

// normalizeMessage converts a RawMessage, reporting false for records without
// a sender, without text, or with an unreadable date
func (n *Normalizer) normalizeMessage(raw *RawMessage) (Message, bool) {
	if !raw.HasContent() {
		return Message{}, false
	}

	ts, err := raw.GetTimestamp()
	if err != nil {
		LogDebug("Skipping message %d: %v", raw.ID, err)
		return Message{}, false
	}

	return Message{
		Timestamp: ts,
		Author:    raw.From,
		Text:      raw.PlainText(),
	}, true
}

// DetectTarget resolves the target from the self entry: its id, and the
// display name of the first message sent from that id
func (n *Normalizer) DetectTarget(self *RawChat) Target {
	target := Target{ID: self.ID, HasID: true}
	senderID := self.SelfSenderID()
	for _, msg := range self.Messages {
		if msg.FromID == senderID {
			target.Name = msg.From
			break
		}
	}
	return target
}
