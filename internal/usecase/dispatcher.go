package usecase

import (
	"context"
	"log/slog"

	"ArticleBot/internal/command"
	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/view"
)

// DispatcherDeps wires the event router.
type DispatcherDeps struct {
	Commands  *command.Registry
	Selection *SelectionFlow
	Submitter *Submitter
	Forum     *ForumFlow
	// Publisher is optional; when set, created interactive submissions get
	// a thread in ForumID.
	Publisher ports.ForumPublisher
	ForumID   string
	Logger    *slog.Logger
}

// Dispatcher routes normalized events and guarantees one reply per event.
type Dispatcher struct {
	commands  *command.Registry
	selection *SelectionFlow
	submitter *Submitter
	forum     *ForumFlow
	publisher ports.ForumPublisher
	forumID   string
	logger    *slog.Logger
}

var _ ports.EventHandler = (*Dispatcher)(nil)

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	d := &Dispatcher{
		commands:  deps.Commands,
		selection: deps.Selection,
		submitter: deps.Submitter,
		forum:     deps.Forum,
		publisher: deps.Publisher,
		forumID:   deps.ForumID,
		logger:    deps.Logger,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// RegisterDefaultCommands adds the article and help commands.
func RegisterDefaultCommands(registry *command.Registry, selection *SelectionFlow) {
	registry.Register(ArticleCommand{selection: selection})
	registry.Register(HelpCommand{registry: registry})
}

func (d *Dispatcher) HandleCommand(ctx context.Context, ev domain.CommandEvent, r ports.Responder) {
	cmd, err := d.commands.Resolve(ev.Name)
	if err != nil {
		d.logger.Debug("unknown command", "name", ev.Name, "source", ev.Source)
		d.reply(ctx, r, view.Notice(TextUnknownCommand, true))
		return
	}
	if err := cmd.Execute(ctx, ev, r); err != nil {
		logFailure(d.logger, "command failed", err, "command", ev.Name, "user_id", ev.User.ID)
		d.reply(ctx, r, ErrorMessage(err))
	}
}

func (d *Dispatcher) HandleComponent(ctx context.Context, ev domain.ComponentEvent, r ports.Responder) {
	id, ok := ParseControlID(ev.CustomID)
	if !ok {
		d.ack(ctx, r)
		return
	}

	var err error
	switch id.Kind {
	case kindTag:
		err = d.selection.Toggle(ctx, ev, id.SessionID, id.Value, r)
	case kindConfirm:
		err = d.selection.Confirm(ctx, ev, id.SessionID, r)
	}
	if err != nil {
		logFailure(d.logger, "selection control failed", err, "custom_id", ev.CustomID, "user_id", ev.User.ID)
		d.reply(ctx, r, ErrorMessage(err))
	}
}

func (d *Dispatcher) HandleModal(ctx context.Context, ev domain.ModalEvent, r ports.Responder) {
	categories, ok := ParseModalID(ev.CustomID)
	if !ok {
		d.ack(ctx, r)
		return
	}

	if err := r.Defer(ctx, false); err != nil {
		logFailure(d.logger, "defer form reply", err, "user_id", ev.User.ID)
		return
	}

	sub := ModalSubmission(ev, categories)
	result, err := d.submitter.Submit(ctx, sub)
	if err != nil {
		logFailure(d.logger, "submission failed", err, "url", sub.URL, "user_id", ev.User.ID)
		d.edit(ctx, r, ErrorMessage(err))
		return
	}

	threadID := ""
	if result.Status == domain.StatusCreated && d.publisher != nil && d.forumID != "" {
		threadID, err = d.publisher.Publish(ctx, d.forumID, ForumPostFor(result.Article, sub.SubmitterName))
		if err != nil {
			logFailure(d.logger, "publish forum thread", err, "article_id", result.Article.ID)
			threadID = ""
		}
	}

	d.edit(ctx, r, ResultMessage(result, sub.SubmitterName, threadID))
}

func (d *Dispatcher) HandleThread(ctx context.Context, ev domain.ThreadEvent) {
	if d.forum == nil {
		return
	}
	if err := d.forum.Handle(ctx, ev); err != nil {
		logFailure(d.logger, "forum flow failed", err, "thread_id", ev.ThreadID)
	}
}

func (d *Dispatcher) reply(ctx context.Context, r ports.Responder, msg view.Message) {
	if err := r.Reply(ctx, msg); err != nil {
		logFailure(d.logger, "reply", err)
	}
}

func (d *Dispatcher) edit(ctx context.Context, r ports.Responder, msg view.Message) {
	if err := r.EditReply(ctx, msg); err != nil {
		logFailure(d.logger, "edit reply", err)
	}
}

func (d *Dispatcher) ack(ctx context.Context, r ports.Responder) {
	if err := r.DeferUpdate(ctx); err != nil {
		logFailure(d.logger, "acknowledge", err)
	}
}

// ArticleCommand starts the interactive submission.
type ArticleCommand struct {
	selection *SelectionFlow
}

func (ArticleCommand) Name() string        { return "article" }
func (ArticleCommand) Description() string { return "Submit a technical article: pick tags, then enter the URL." }

func (c ArticleCommand) Execute(ctx context.Context, ev domain.CommandEvent, r ports.Responder) error {
	if ev.Source == domain.CommandText {
		// toggles need interaction components, which text messages cannot open
		return r.Reply(ctx, view.Notice(TextUseSlashCommand, false))
	}
	return c.selection.Start(ctx, ev, r)
}

// HelpCommand lists the registered commands.
type HelpCommand struct {
	registry *command.Registry
}

func (HelpCommand) Name() string        { return "help" }
func (HelpCommand) Description() string { return "Show this help message." }

func (c HelpCommand) Execute(ctx context.Context, _ domain.CommandEvent, r ports.Responder) error {
	return r.Reply(ctx, HelpMessage(c.registry.All()))
}

// logFailure logs err at a level matching its kind.
func logFailure(logger *slog.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err, "kind", domain.KindOf(err))
	switch domain.KindOf(err) {
	case domain.KindValidation:
		logger.Debug(msg, args...)
	case domain.KindExternalService, domain.KindProtocol:
		logger.Warn(msg, args...)
	default:
		logger.Error(msg, args...)
	}
}
