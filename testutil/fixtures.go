package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// ExportBuilder assembles a Telegram "Export chat history" document. Entries
// are plain maps so tests can omit or null keys the way real exports do.
type ExportBuilder struct {
	entries []map[string]interface{}
	nextID  int64
}

// NewExport starts an empty export
func NewExport() *ExportBuilder {
	return &ExportBuilder{nextID: 1000}
}

// Self adds the Saved Messages entry, which has no "name" key
func (b *ExportBuilder) Self(userID int64, messages ...map[string]interface{}) *ExportBuilder {
	b.entries = append(b.entries, map[string]interface{}{
		"id":       userID,
		"type":     "saved_messages",
		"messages": nonNil(messages),
	})
	return b
}

// Chat adds a named conversation of the given type
func (b *ExportBuilder) Chat(name, kind string, messages ...map[string]interface{}) *ExportBuilder {
	b.nextID++
	b.entries = append(b.entries, map[string]interface{}{
		"id":       b.nextID,
		"name":     name,
		"type":     kind,
		"messages": nonNil(messages),
	})
	return b
}

// Deleted adds a chat with a deleted partner, whose name is null
func (b *ExportBuilder) Deleted(kind string, messages ...map[string]interface{}) *ExportBuilder {
	b.nextID++
	b.entries = append(b.entries, map[string]interface{}{
		"id":       b.nextID,
		"name":     nil,
		"type":     kind,
		"messages": nonNil(messages),
	})
	return b
}

// Entry adds a raw entry as-is
func (b *ExportBuilder) Entry(entry map[string]interface{}) *ExportBuilder {
	b.entries = append(b.entries, entry)
	return b
}

// Document returns the export as a JSON-ready value
func (b *ExportBuilder) Document() map[string]interface{} {
	list := b.entries
	if list == nil {
		list = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"about": "Here is the data you requested.",
		"chats": map[string]interface{}{
			"about": "This page lists all chats from this export.",
			"list":  list,
		},
	}
}

// JSON encodes the export
func (b *ExportBuilder) JSON(t *testing.T) []byte {
	t.Helper()
	return JSONMarshal(t, b.Document())
}

// WriteFile writes the export to dir/result.json and returns its path
func (b *ExportBuilder) WriteFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "result.json")
	if err := os.WriteFile(path, b.JSON(t), 0644); err != nil {
		t.Fatalf("Failed to write export fixture: %v", err)
	}
	return path
}

// Msg builds a text message sent by from at ts
func Msg(ts time.Time, from, fromID, text string) map[string]interface{} {
	m := baseMessage(ts, from, fromID)
	m["text"] = text
	m["text_entities"] = []map[string]interface{}{
		{"type": "plain", "text": text},
	}
	return m
}

// Sticker builds a sticker message with no text entities
func Sticker(ts time.Time, from, fromID, emoji string) map[string]interface{} {
	m := baseMessage(ts, from, fromID)
	m["text"] = ""
	m["text_entities"] = []map[string]interface{}{}
	m["media_type"] = "sticker"
	m["sticker_emoji"] = emoji
	return m
}

// Service builds a service message, which has no sender
func Service(ts time.Time, action string) map[string]interface{} {
	return map[string]interface{}{
		"id":            ts.Unix(),
		"type":          "service",
		"date":          ts.Local().Format("2006-01-02T15:04:05"),
		"date_unixtime": strconv.FormatInt(ts.Unix(), 10),
		"actor":         "someone",
		"action":        action,
		"text":          "",
		"text_entities": []map[string]interface{}{},
	}
}

// UserID formats a numeric id the way exports tag senders
func UserID(id int64) string {
	return "user" + strconv.FormatInt(id, 10)
}

func baseMessage(ts time.Time, from, fromID string) map[string]interface{} {
	return map[string]interface{}{
		"id":            ts.Unix(),
		"type":          "message",
		"date":          ts.Local().Format("2006-01-02T15:04:05"),
		"date_unixtime": strconv.FormatInt(ts.Unix(), 10),
		"from":          from,
		"from_id":       fromID,
	}
}

func nonNil(messages []map[string]interface{}) []map[string]interface{} {
	if messages == nil {
		return []map[string]interface{}{}
	}
	return messages
}
