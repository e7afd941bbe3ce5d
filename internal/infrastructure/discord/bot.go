package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"ArticleBot/internal/command"
	"ArticleBot/internal/config"
	"ArticleBot/internal/ports"
)

const (
	intents      = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	eventTimeout = 2 * time.Minute
)

// Bot owns the gateway session and forwards normalized events to a handler.
type Bot struct {
	cfg      config.DiscordConfig
	session  *discordgo.Session
	handler  ports.EventHandler
	commands *command.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	closed   bool
	inflight sync.WaitGroup
	removers []func()
}

// BotDeps groups Bot collaborators.
type BotDeps struct {
	Config   config.DiscordConfig
	Handler  ports.EventHandler
	Commands *command.Registry
	Logger   *slog.Logger
}

// NewSession creates an unopened discordgo session for the bot token.
func NewSession(cfg config.DiscordConfig, logLevel int) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents
	session.LogLevel = logLevel
	return session, nil
}

func NewBot(session *discordgo.Session, deps BotDeps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:      deps.Config,
		session:  session,
		handler:  deps.Handler,
		commands: deps.Commands,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Open connects to the gateway and, when enabled, registers slash commands.
// Event handlers derive their contexts from ctx.
func (b *Bot) Open(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.removers = append(b.removers,
		b.session.AddHandler(b.onReady),
		b.session.AddHandler(b.onInteraction),
		b.session.AddHandler(b.onMessage),
		b.session.AddHandler(b.onThread),
	)
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	if b.cfg.RegisterCommands {
		if err := b.registerCommands(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops receiving events, waits for in-flight handlers and disconnects.
func (b *Bot) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("closing with handlers still running", "error", ctx.Err())
	}

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) registerCommands(ctx context.Context) error {
	appID := b.cfg.ApplicationID
	if appID == "" && b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	if appID == "" {
		return fmt.Errorf("register commands: application id unknown")
	}

	defs := applicationCommands(b.commands)
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.cfg.GuildID, defs, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.logger.Info("slash commands registered", "count", len(defs), "guild", b.cfg.GuildID)
	return nil
}

func applicationCommands(registry *command.Registry) []*discordgo.ApplicationCommand {
	if registry == nil {
		return nil
	}
	cmds := registry.All()
	defs := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, c := range cmds {
		defs = append(defs, &discordgo.ApplicationCommand{
			Name:        c.Name(),
			Description: c.Description(),
		})
	}
	return defs
}

// track runs fn with a bounded context and registers it for Close. Events
// arriving after Close has started are dropped.
func (b *Bot) track(fn func(ctx context.Context)) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("dropping event after close")
		return
	}
	parent := b.ctx
	b.inflight.Add(1)
	b.mu.Unlock()
	defer b.inflight.Done()

	ctx, cancel := context.WithTimeout(parent, eventTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("event handler panicked", "panic", rec)
		}
	}()
	fn(ctx)
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.track(func(ctx context.Context) {
		r := NewInteractionResponder(s, i.Interaction)
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			b.handler.HandleCommand(ctx, commandEvent(i.Interaction), r)
		case discordgo.InteractionMessageComponent:
			b.handler.HandleComponent(ctx, componentEvent(i.Interaction), r)
		case discordgo.InteractionModalSubmit:
			b.handler.HandleModal(ctx, modalEvent(i.Interaction), r)
		default:
			b.logger.Debug("ignoring interaction", "type", i.Type.String())
		}
	})
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	ev, ok := textCommand(m.Message, b.cfg.CommandPrefix)
	if !ok {
		return
	}
	b.track(func(ctx context.Context) {
		b.handler.HandleCommand(ctx, ev, NewMessageResponder(s, m.ChannelID, m.ID))
	})
}

func (b *Bot) onThread(s *discordgo.Session, t *discordgo.ThreadCreate) {
	if t.Channel == nil {
		return
	}
	var selfID string
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	ev := threadEvent(t, selfID)
	b.track(func(ctx context.Context) {
		b.handler.HandleThread(ctx, ev)
	})
}

// Ping reports whether the gateway connection has an acknowledged heartbeat.
func (b *Bot) Ping(context.Context) error {
	if b.session.DataReady {
		return nil
	}
	return fmt.Errorf("discord gateway not ready")
}
