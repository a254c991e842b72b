package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// exportDateLayout is the layout of the "date" field; values carry no zone and
// are interpreted in local time
const exportDateLayout = "2006-01-02T15:04:05"

// RawExport is the top level of a chat export file
type RawExport struct {
	Chats *RawChatList `json:"chats"`
}

// RawChatList wraps the list of chat entries
type RawChatList struct {
	List []RawChat `json:"list"`
}

// RawChat represents a chat entry from the export
type RawChat struct {
	ID       int64        `json:"id"`
	Name     entryName    `json:"name"`
	Type     string       `json:"type"`
	Messages []RawMessage `json:"messages"`
}

// RawMessage represents a message entry from the export
type RawMessage struct {
	ID           int64        `json:"id"`
	Type         string       `json:"type"`
	Date         string       `json:"date"`
	DateUnix     string       `json:"date_unixtime,omitempty"`
	From         string       `json:"from"`
	FromID       string       `json:"from_id"`
	TextEntities []TextEntity `json:"text_entities"`
	StickerEmoji *string      `json:"sticker_emoji,omitempty"`
}

// TextEntity is one formatted fragment of a message's text
type TextEntity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// EntryKind classifies a chat entry
type EntryKind int

const (
	// EntryChat is an ordinary named conversation
	EntryChat EntryKind = iota
	// EntrySelf is the "Saved Messages" entry; it has no name key at all
	EntrySelf
	// EntryDeleted is a conversation with a deleted account (null or empty name)
	EntryDeleted
)

func (k EntryKind) String() string {
	switch k {
	case EntrySelf:
		return "self"
	case EntryDeleted:
		return "deleted"
	default:
		return "chat"
	}
}

// entryName keeps track of whether the "name" key was present at all
type entryName struct {
	Present bool
	Value   string
}

func (n *entryName) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		n.Value = ""
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// Classify returns the kind of a chat entry
func (rc *RawChat) Classify() EntryKind {
	switch {
	case !rc.Name.Present:
		return EntrySelf
	case rc.Name.Value == "":
		return EntryDeleted
	default:
		return EntryChat
	}
}

// SelfSenderID returns the sender id the self entry's own messages carry
func (rc *RawChat) SelfSenderID() string {
	return "user" + strconv.FormatInt(rc.ID, 10)
}

// ParseRawExport parses export JSON into a RawExport
func ParseRawExport(data []byte) (*RawExport, error) {
	var export RawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse export JSON: %w", err)
	}
	if export.Chats == nil {
		return nil, fmt.Errorf("missing required key %q", "chats")
	}
	if export.Chats.List == nil {
		return nil, fmt.Errorf("missing required key %q", "chats.list")
	}
	return &export, nil
}

// GetTimestamp returns the message time, falling back to date_unixtime
func (rm *RawMessage) GetTimestamp() (time.Time, error) {
	if rm.Date != "" {
		if t, err := time.ParseInLocation(exportDateLayout, rm.Date, time.Local); err == nil {
			return t, nil
		}
	}
	if rm.DateUnix != "" {
		sec, err := strconv.ParseInt(rm.DateUnix, 10, 64)
		if err == nil {
			return time.Unix(sec, 0), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid message date %q", rm.Date)
}

// HasContent reports whether the message carries usable text
func (rm *RawMessage) HasContent() bool {
	return rm.From != "" && (len(rm.TextEntities) > 0 || rm.StickerEmoji != nil)
}

// PlainText concatenates all text fragments and appends the sticker emoji
func (rm *RawMessage) PlainText() string {
	var sb strings.Builder
	for _, entity := range rm.TextEntities {
		sb.WriteString(entity.Text)
	}
	if rm.StickerEmoji != nil {
		sb.WriteString(*rm.StickerEmoji)
	}
	return sb.String()
}
