package internal

import "time"

// ChatKind is the conversation type tag carried by every chat entry
type ChatKind string

const (
	ChatKindPersonal          ChatKind = "personal_chat"
	ChatKindPrivateGroup      ChatKind = "private_group"
	ChatKindPrivateSupergroup ChatKind = "private_supergroup"
)

// ParseChatKind validates a raw type tag
func ParseChatKind(s string) (ChatKind, bool) {
	switch k := ChatKind(s); k {
	case ChatKindPersonal, ChatKindPrivateGroup, ChatKindPrivateSupergroup:
		return k, true
	default:
		return "", false
	}
}

// Message is one normalized chat message. Values are never mutated after the
// loader builds them; stages that rewrite text return new values.
type Message struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Author    string    `json:"author" yaml:"author"`
	Text      string    `json:"text" yaml:"text"`
}

// Session is a contiguous, non-empty run of messages from one chat
type Session []Message

// Chat is a normalized conversation
type Chat struct {
	Name     string    `json:"name"`
	Kind     ChatKind  `json:"kind"`
	Position int       `json:"position"` // index of the entry in the source export
	Messages []Message `json:"messages"`
	Sessions []Session `json:"sessions,omitempty"`
}

// LastActivity returns the timestamp of the newest message
func (c *Chat) LastActivity() time.Time {
	if len(c.Messages) == 0 {
		return time.Time{}
	}
	return c.Messages[len(c.Messages)-1].Timestamp
}

// Target identifies the participant the dataset imitates
type Target struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	HasID bool   `json:"has_id" yaml:"has_id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Resolved reports whether a target name is known
func (t Target) Resolved() bool {
	return t.Name != ""
}

// WithOverride returns the target with name replaced when override is set
func (t Target) WithOverride(name string) Target {
	if name != "" {
		t.Name = name
	}
	return t
}

// Record is one training example
type Record struct {
	Text string `json:"text" yaml:"text"`
}
