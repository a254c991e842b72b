package internal

import (
	"testing"
	"time"
)

func TestMarkup_FormatSession(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		markup  Markup
		session Session
		want    string
	}{
		{
			name:   "chatml",
			markup: DefaultMarkup(),
			session: CreateTestSession(base,
				TestMessage{Author: "Bob", Text: ">>>question"},
				TestMessage{After: time.Minute, Author: "Alice", Text: ">>>answer"},
			),
			want: "<|im_start|>Bob\n>>>question<|im_end|>\n<|im_start|>Alice\n>>>answer<|im_end|>",
		},
		{
			name:    "single turn",
			markup:  DefaultMarkup(),
			session: CreateTestSession(base, TestMessage{Author: "Bob", Text: ">>>hi"}),
			want:    "<|im_start|>Bob\n>>>hi<|im_end|>",
		},
		{
			name:   "custom markers",
			markup: Markup{Start: "[", End: "]"},
			session: CreateTestSession(base,
				TestMessage{Author: "A", Text: "x"},
				TestMessage{After: time.Minute, Author: "B", Text: "y"},
			),
			want: "[A\nx]\n[B\ny]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.markup.FormatSession(tt.session).Text; got != tt.want {
				t.Errorf("FormatSession() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkup_FormatSessions(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := []Session{
		CreateTestSession(base, TestMessage{Author: "A", Text: "1"}),
		CreateTestSession(base, TestMessage{Author: "B", Text: "2"}),
	}

	records := DefaultMarkup().FormatSessions(sessions)
	if len(records) != 2 {
		t.Fatalf("FormatSessions() returned %d records, want 2", len(records))
	}
	if records[1].Text != "<|im_start|>B\n2<|im_end|>" {
		t.Errorf("record order not preserved: %q", records[1].Text)
	}
}
