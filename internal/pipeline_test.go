package internal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = fixedNow
	return opts
}

func TestPipeline_Run(t *testing.T) {
	base := fixedNow().Add(-24 * time.Hour)
	chats := []Chat{
		CreateTestChat("Bob", 0, base,
			TestMessage{After: 0, Author: "Bob", Text: "question"},
			TestMessage{After: time.Minute, Author: "Alice", Text: "answer"},
			// New session: Alice opens it and nobody answers after her
			TestMessage{After: 2 * time.Hour, Author: "Alice", Text: "ping"},
			TestMessage{After: 2*time.Hour + time.Minute, Author: "Bob", Text: "pong"},
		),
		CreateTestChat("Old", 1, fixedNow().Add(-3*365*24*time.Hour),
			TestMessage{Author: "Carol", Text: "ancient"},
			TestMessage{After: time.Minute, Author: "Alice", Text: "reply"},
		),
	}

	opts := testOptions()
	opts.LastXMonths = 12
	result, err := NewPipeline(opts).Run(context.Background(), chats, Target{Name: "Alice"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("Run() produced %d records, want 1", len(result.Records))
	}
	want := "<|im_start|>Bob\n>>>question<|im_end|>\n<|im_start|>Alice\n>>>answer<|im_end|>"
	if result.Records[0].Text != want {
		t.Errorf("record = %q, want %q", result.Records[0].Text, want)
	}

	r := result.Report
	if r.ChatsLoaded != 2 || r.ChatsAfterDateFilter != 1 || r.MessagesKept != 4 {
		t.Errorf("report counts = loaded %d, window %d, messages %d", r.ChatsLoaded, r.ChatsAfterDateFilter, r.MessagesKept)
	}
	if r.Sessions != 2 || r.SessionsRetained != 1 || r.Records != 1 {
		t.Errorf("report sessions = %d, retained %d, records %d", r.Sessions, r.SessionsRetained, r.Records)
	}
	if r.Target != "Alice" || r.RunID == "" {
		t.Errorf("report target %q run id %q", r.Target, r.RunID)
	}
	if !r.Cutoff.Equal(Cutoff(fixedNow(), 12)) {
		t.Errorf("report cutoff = %v", r.Cutoff)
	}
}

func TestPipeline_ResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		override string
		allow    bool
		detected Target
		want     string
		wantErr  error
	}{
		{name: "detected", detected: Target{Name: "Alice"}, want: "Alice"},
		{name: "override wins", override: "Zed", detected: Target{Name: "Alice"}, want: "Zed"},
		{name: "override fills missing", override: "Zed", want: "Zed"},
		{name: "unresolved", wantErr: ErrTargetUnresolved},
		{name: "unresolved allowed", allow: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.TargetName = tt.override
			opts.AllowMissingTarget = tt.allow

			got, err := NewPipeline(opts).ResolveTarget(tt.detected)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveTarget() error = %v, want %v", err, tt.wantErr)
			}
			if got.Name != tt.want {
				t.Errorf("ResolveTarget() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestPipeline_RunUnresolvedTarget(t *testing.T) {
	chats := []Chat{CreateTestChat("Bob", 0, fixedNow().Add(-time.Hour), TestMessage{Author: "Bob", Text: "x"})}

	_, err := NewPipeline(testOptions()).Run(context.Background(), chats, Target{})
	if !errors.Is(err, ErrTargetUnresolved) {
		t.Fatalf("Run() error = %v, want ErrTargetUnresolved", err)
	}

	opts := testOptions()
	opts.AllowMissingTarget = true
	result, err := NewPipeline(opts).Run(context.Background(), chats, Target{})
	if err != nil {
		t.Fatalf("Run() with AllowMissingTarget error = %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("got %d records, want none", len(result.Records))
	}
}

func TestPipeline_DeterministicAcrossWorkers(t *testing.T) {
	base := fixedNow().Add(-48 * time.Hour)
	var chats []Chat
	for i := 0; i < 40; i++ {
		chats = append(chats, CreateTestChat(fmt.Sprintf("chat-%02d", i), i, base,
			TestMessage{After: 0, Author: fmt.Sprintf("friend-%d", i), Text: "hello"},
			TestMessage{After: time.Minute, Author: "Alice", Text: fmt.Sprintf("reply %d", i)},
			TestMessage{After: time.Hour, Author: fmt.Sprintf("friend-%d", i), Text: "again"},
			TestMessage{After: time.Hour + time.Minute, Author: "Alice", Text: "again to you"},
		))
	}

	run := func(workers int) []Record {
		opts := testOptions()
		opts.Workers = workers
		result, err := NewPipeline(opts).Run(context.Background(), chats, Target{Name: "Alice"})
		if err != nil {
			t.Fatalf("Run(workers=%d) error = %v", workers, err)
		}
		return result.Records
	}

	sequential := run(1)
	if len(sequential) != 80 {
		t.Fatalf("got %d records, want 80", len(sequential))
	}
	for _, workers := range []int{2, 8, 64} {
		parallel := run(workers)
		if len(parallel) != len(sequential) {
			t.Fatalf("workers=%d produced %d records, want %d", workers, len(parallel), len(sequential))
		}
		for i := range parallel {
			if parallel[i] != sequential[i] {
				t.Fatalf("workers=%d record %d differs", workers, i)
			}
		}
	}
}

func TestPipeline_TransformCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chats := []Chat{CreateTestChat("Bob", 0, fixedNow(), TestMessage{Author: "Bob", Text: "x"})}
	if _, err := NewPipeline(testOptions()).Transform(ctx, chats, "Alice"); !errors.Is(err, context.Canceled) {
		t.Errorf("Transform() error = %v, want context.Canceled", err)
	}
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline(Options{})
	if p.opts.Markup != DefaultMarkup() {
		t.Errorf("Markup = %+v, want defaults", p.opts.Markup)
	}
	if p.opts.Workers <= 0 {
		t.Errorf("Workers = %d, want positive", p.opts.Workers)
	}
	if p.opts.Now == nil {
		t.Error("Now should default to time.Now")
	}
}
