package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/forumtag"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/view"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// ForumDeps wires the passive forum submission path.
type ForumDeps struct {
	Gateway      ports.ForumGateway
	Submitter    *Submitter
	ForumID      string
	FetchDelay   time.Duration
	MessageLimit int
	Logger       *slog.Logger
}

// ForumFlow turns new threads in the watched forum into submissions.
type ForumFlow struct {
	gateway   ports.ForumGateway
	submitter *Submitter
	forumID   string
	delay     time.Duration
	limit     int
	logger    *slog.Logger
}

func NewForumFlow(deps ForumDeps) *ForumFlow {
	f := &ForumFlow{
		gateway:   deps.Gateway,
		submitter: deps.Submitter,
		forumID:   deps.ForumID,
		delay:     deps.FetchDelay,
		limit:     deps.MessageLimit,
		logger:    deps.Logger,
	}
	if f.limit <= 0 {
		f.limit = 5
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

// Watches reports whether ev is a thread this flow should process.
func (f *ForumFlow) Watches(ev domain.ThreadEvent) bool {
	return f.forumID != "" && ev.ParentID == f.forumID && ev.NewlyCreated && !ev.CreatedBySelf
}

// Handle reads the thread's starter message and submits its first URL,
// replying in the thread with the outcome.
func (f *ForumFlow) Handle(ctx context.Context, ev domain.ThreadEvent) error {
	if !f.Watches(ev) {
		return nil
	}

	// the starter message is not always readable the instant the thread exists
	if err := sleep(ctx, f.delay); err != nil {
		return err
	}

	messages, err := f.gateway.RecentMessages(ctx, ev.ThreadID, f.limit)
	if err != nil {
		return fmt.Errorf("read thread messages: %w", err)
	}
	starter, ok := oldest(messages)
	if !ok {
		f.logger.Debug("thread has no readable messages", "thread_id", ev.ThreadID)
		return nil
	}

	articleURL := ExtractURL(starter.Content)
	if articleURL == "" {
		return f.gateway.Send(ctx, ev.ThreadID, starter.ID, view.Notice(TextMissingURL, false))
	}

	available, err := f.gateway.ForumTags(ctx, ev.ParentID)
	if err != nil {
		f.logger.Warn("read forum tags", "forum_id", ev.ParentID, "error", err)
		available = nil
	}
	categories := forumtag.Infer(ev.AppliedTags, available)
	if len(categories) > domain.MaxCategories {
		categories = categories[:domain.MaxCategories]
	}

	sub := ThreadSubmission(ev, starter, articleURL, categories)
	result, err := f.submitter.Submit(ctx, sub)
	if err != nil {
		logFailure(f.logger, "forum submission failed", err, "thread_id", ev.ThreadID, "url", articleURL)
		return f.gateway.Send(ctx, ev.ThreadID, starter.ID, ErrorMessage(err))
	}
	return f.gateway.Send(ctx, ev.ThreadID, starter.ID, ResultMessage(result, starter.Author.Name, ""))
}

// ExtractURL returns the first http(s) URL in content.
func ExtractURL(content string) string {
	return urlPattern.FindString(content)
}

// oldest picks the earliest message; ties keep the later slice position,
// since platforms list newest first.
func oldest(messages []domain.ThreadMessage) (domain.ThreadMessage, bool) {
	if len(messages) == 0 {
		return domain.ThreadMessage{}, false
	}
	first := messages[len(messages)-1]
	for _, m := range messages {
		if m.Timestamp.Before(first.Timestamp) {
			first = m
		}
	}
	return first, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
