package ports

import (
	"context"
	"time"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/view"
)

// ArticleStore persists submitted articles keyed by URL.
type ArticleStore interface {
	// GetByURL returns domain.ErrArticleNotFound when no record exists.
	GetByURL(ctx context.Context, url string) (domain.Article, error)
	// Insert returns domain.ErrDuplicateURL on a uniqueness conflict.
	Insert(ctx context.Context, article domain.Article) (domain.Article, error)
}

// MetadataResolver fetches page metadata for a URL.
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) (domain.ArticleMetadata, error)
}

// SessionStore keeps live tag selection sessions.
type SessionStore interface {
	Create(ctx context.Context, session domain.SelectionSession) error
	Get(ctx context.Context, id string) (domain.SelectionSession, error)
	// Mutate applies fn atomically and returns the stored result. When fn
	// returns an error nothing is written.
	Mutate(ctx context.Context, id string, fn func(*domain.SelectionSession) error) (domain.SelectionSession, error)
	// Finish removes the session and reports whether this call removed it.
	// Exactly one concurrent caller observes true.
	Finish(ctx context.Context, id string) (bool, error)
}

// Responder replies to a single inbound interaction.
type Responder interface {
	Reply(ctx context.Context, msg view.Message) error
	Defer(ctx context.Context, ephemeral bool) error
	DeferUpdate(ctx context.Context) error
	// Update edits the message the clicked control lives on.
	Update(ctx context.Context, msg view.Message) error
	// EditReply edits the original (possibly deferred) response.
	EditReply(ctx context.Context, msg view.Message) error
	OpenTextInput(ctx context.Context, input view.TextInput) error
}

// ForumGateway reads and writes forum threads on the platform.
type ForumGateway interface {
	RecentMessages(ctx context.Context, channelID string, limit int) ([]domain.ThreadMessage, error)
	ForumTags(ctx context.Context, forumID string) (map[string]string, error)
	// Send posts msg into channelID, replying to replyTo when it is set.
	Send(ctx context.Context, channelID, replyTo string, msg view.Message) error
}

// ForumPublisher creates a forum thread for a stored article.
type ForumPublisher interface {
	Publish(ctx context.Context, forumID string, post view.ForumPost) (string, error)
}

// EventHandler consumes normalized platform events.
type EventHandler interface {
	HandleCommand(ctx context.Context, ev domain.CommandEvent, r Responder)
	HandleComponent(ctx context.Context, ev domain.ComponentEvent, r Responder)
	HandleModal(ctx context.Context, ev domain.ModalEvent, r Responder)
	HandleThread(ctx context.Context, ev domain.ThreadEvent)
}

// Metrics records workflow counters.
type Metrics interface {
	SubmissionCompleted(source domain.SubmissionSource, outcome string)
	MetadataFetched(elapsed time.Duration, err error)
	SelectionTransition(state domain.SelectionState)
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
