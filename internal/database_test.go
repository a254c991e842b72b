package internal

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chats.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	counts, err := TableCounts(db)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	for _, table := range []string{"chats", "messages"} {
		n, ok := counts[table]
		if !ok {
			t.Errorf("table %s missing", table)
		}
		if n != 0 {
			t.Errorf("table %s has %d rows, want 0", table, n)
		}
	}
}

func TestWriteAndReadChats(t *testing.T) {
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "chats.db"))
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	base := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	chats := []Chat{
		CreateTestChat("Bob", 3, base,
			TestMessage{Author: "Bob", Text: "привет"},
			TestMessage{After: time.Minute, Author: "Alice", Text: "hi\nthere"},
		),
		{
			Name:     "Team",
			Kind:     ChatKindPrivateGroup,
			Position: 1,
			Messages: CreateTestMessages(base, TestMessage{Author: "Carol", Text: "x"}),
		},
	}

	if err := WriteChats(db, chats); err != nil {
		t.Fatalf("WriteChats() error = %v", err)
	}
	// Writing again replaces rather than appends
	if err := WriteChats(db, chats); err != nil {
		t.Fatalf("second WriteChats() error = %v", err)
	}

	got, err := ReadChats(db)
	if err != nil {
		t.Fatalf("ReadChats() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadChats() returned %d chats, want 2", len(got))
	}

	// Ordered by position
	if got[0].Name != "Team" || got[1].Name != "Bob" {
		t.Errorf("order = [%s %s], want [Team Bob]", got[0].Name, got[1].Name)
	}
	if got[0].Kind != ChatKindPrivateGroup {
		t.Errorf("kind = %q", got[0].Kind)
	}

	bob := got[1]
	if len(bob.Messages) != 2 {
		t.Fatalf("Bob has %d messages, want 2", len(bob.Messages))
	}
	for i, msg := range bob.Messages {
		want := chats[0].Messages[i]
		if msg.Author != want.Author || msg.Text != want.Text || !msg.Timestamp.Equal(want.Timestamp) {
			t.Errorf("message %d = %+v, want %+v", i, msg, want)
		}
	}

	counts, err := TableCounts(db)
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts["chats"] != 2 || counts["messages"] != 3 {
		t.Errorf("counts = %v, want 2 chats and 3 messages", counts)
	}
}
