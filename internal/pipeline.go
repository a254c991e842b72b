package internal

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLastXMonths             = 60
	DefaultSessionMinutesThreshold = 10
	DefaultMergeDelimiter          = "\n>>>"
)

// Options configures a pipeline run
type Options struct {
	TargetName              string // overrides the detected target when set
	LastXMonths             int
	SessionMinutesThreshold int
	MergeDelimiter          string
	Markup                  Markup
	Workers                 int
	AllowMissingTarget      bool
	Now                     func() time.Time
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		LastXMonths:             DefaultLastXMonths,
		SessionMinutesThreshold: DefaultSessionMinutesThreshold,
		MergeDelimiter:          DefaultMergeDelimiter,
		Markup:                  DefaultMarkup(),
		Workers:                 runtime.NumCPU(),
		Now:                     time.Now,
	}
}

// Pipeline turns loaded chats into training records
type Pipeline struct {
	opts Options
}

// Result is the output of a pipeline run
type Result struct {
	Target  Target
	Chats   []Chat // chats that survived the date filter, with retained sessions
	Records []Record
	Report  *RunReport
}

// NewPipeline creates a pipeline, filling zero-valued options with defaults
func NewPipeline(opts Options) *Pipeline {
	if opts.Markup == (Markup{}) {
		opts.Markup = DefaultMarkup()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{opts: opts}
}

// ResolveTarget applies the configured override to the detected target. An
// unresolved target is an error unless AllowMissingTarget is set, because no
// session could pass the target filter.
func (p *Pipeline) ResolveTarget(detected Target) (Target, error) {
	target := detected.WithOverride(p.opts.TargetName)
	if target.Resolved() {
		return target, nil
	}
	if p.opts.AllowMissingTarget {
		LogWarn("No target name resolved; the output will be empty")
		return target, nil
	}
	return target, ErrTargetUnresolved
}

// Run executes every stage after loading
func (p *Pipeline) Run(ctx context.Context, chats []Chat, detected Target) (*Result, error) {
	report := NewRunReport(p.opts.Now())
	report.ChatsLoaded = len(chats)

	target, err := p.ResolveTarget(detected)
	if err != nil {
		return nil, err
	}
	report.Target = target.Name
	LogInfo("Preparing dataset for user with name '%s'...", target.Name)

	cutoff := Cutoff(p.opts.Now(), p.opts.LastXMonths)
	report.Cutoff = cutoff
	chats = FilterByDate(chats, cutoff)
	report.ChatsAfterDateFilter = len(chats)
	for _, chat := range chats {
		report.MessagesKept += len(chat.Messages)
	}
	LogInfo("After filtering by date, there are %d chats left", len(chats))

	processed, segmented, err := p.transform(ctx, chats, target.Name)
	if err != nil {
		return nil, err
	}
	report.Sessions = segmented

	var records []Record
	for _, chat := range processed {
		report.SessionsRetained += len(chat.Sessions)
		records = append(records, p.opts.Markup.FormatSessions(chat.Sessions)...)
	}

	report.Records = len(records)

	if len(records) == 0 {
		LogWarn("No sessions contain a reply from '%s'; the dataset is empty", target.Name)
	}

	return &Result{
		Target:  target,
		Chats:   processed,
		Records: records,
		Report:  report,
	}, nil
}

// Transform segments, merges and filters every chat. Chats are processed
// concurrently; the result keeps the input order.
func (p *Pipeline) Transform(ctx context.Context, chats []Chat, target string) ([]Chat, error) {
	out, _, err := p.transform(ctx, chats, target)
	return out, err
}

// transform also returns the number of sessions before target filtering
func (p *Pipeline) transform(ctx context.Context, chats []Chat, target string) ([]Chat, int, error) {
	out := make([]Chat, len(chats))
	counts := make([]int, len(chats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i := range chats {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i], counts[i] = p.transformChat(chats[i], target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	LogDebug("Combined messages into %d sessions across %d chats", total, len(out))
	return out, total, nil
}

// TransformChat runs segmentation, merging and target filtering on one chat
func (p *Pipeline) TransformChat(chat Chat, target string) Chat {
	chat, _ = p.transformChat(chat, target)
	return chat
}

func (p *Pipeline) transformChat(chat Chat, target string) (Chat, int) {
	sessions := CreateSessions(chat.Messages, p.opts.SessionMinutesThreshold)
	sessions = MergeSessions(sessions, p.opts.MergeDelimiter)
	chat.Sessions = FilterSessions(sessions, target)
	return chat, len(sessions)
}
