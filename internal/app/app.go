package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ArticleBot/internal/command"
	"ArticleBot/internal/config"
	"ArticleBot/internal/infrastructure/discord"
	"ArticleBot/internal/infrastructure/httpserver"
	"ArticleBot/internal/infrastructure/metrics"
	"ArticleBot/internal/infrastructure/parser"
	"ArticleBot/internal/infrastructure/scheduler"
	"ArticleBot/internal/infrastructure/session"
	"ArticleBot/internal/infrastructure/storage"
	"ArticleBot/internal/logging"
	"ArticleBot/internal/ports"
	"ArticleBot/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	bot       *discord.Bot
	server    *httpserver.Server
	jobs      *usecase.Scheduler
	selection *usecase.SelectionFlow
	closers   []func() error
}

// New connects backing stores and builds the bot. Nothing listens until Run.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	logging.BridgeDiscord(baseLogger)

	a := &Application{cfg: cfg, logger: baseLogger.With("component", "app")}
	checks := map[string]httpserver.HealthCheck{}
	prom := metrics.NewPrometheus()

	store, db, err := openStore(ctx, cfg.Database, baseLogger)
	if err != nil {
		return nil, err
	}
	if db != nil {
		a.closers = append(a.closers, db.Close)
		checks["database"] = db.PingContext
		a.jobs = usecase.NewScheduler(
			scheduler.NewCronScheduler(cfg.Metrics.DBStatsSchedule, baseLogger.With("component", "scheduler")),
			db,
			prom,
		)
	}

	sessions, err := openSessions(ctx, cfg.Session, checks, a)
	if err != nil {
		a.close()
		return nil, err
	}

	submitter := usecase.NewSubmitter(usecase.SubmitterDeps{
		Store:    store,
		Resolver: parser.NewOpenGraphResolver(cfg.Metadata, nil, baseLogger.With("component", "opengraph")),
		Metrics:  prom,
		Logger:   baseLogger.With("component", "submitter"),
	})

	a.selection = usecase.NewSelectionFlow(usecase.SelectionDeps{
		Sessions: sessions,
		Metrics:  prom,
		Logger:   baseLogger.With("component", "selection"),
		Timeout:  cfg.Session.Timeout,
	})

	dsession, err := discord.NewSession(cfg.Discord, logging.DiscordLevel(logging.LevelFromString(cfg.Logging.Level)))
	if err != nil {
		a.close()
		return nil, err
	}
	gateway := discord.NewGateway(dsession)

	forum := usecase.NewForumFlow(usecase.ForumDeps{
		Gateway:      gateway,
		Submitter:    submitter,
		ForumID:      cfg.Forum.ChannelID,
		FetchDelay:   cfg.Forum.FetchDelay,
		MessageLimit: cfg.Forum.MessageLimit,
		Logger:       baseLogger.With("component", "forum"),
	})

	var publisher ports.ForumPublisher
	if cfg.Forum.Publish && cfg.Forum.ChannelID != "" {
		publisher = gateway
	}

	registry := command.NewRegistry()
	usecase.RegisterDefaultCommands(registry, a.selection)

	dispatcher := usecase.NewDispatcher(usecase.DispatcherDeps{
		Commands:  registry,
		Selection: a.selection,
		Submitter: submitter,
		Forum:     forum,
		Publisher: publisher,
		ForumID:   cfg.Forum.ChannelID,
		Logger:    baseLogger.With("component", "dispatcher"),
	})

	a.bot = discord.NewBot(dsession, discord.BotDeps{
		Config:   cfg.Discord,
		Handler:  dispatcher,
		Commands: registry,
		Logger:   baseLogger.With("component", "discord"),
	})
	checks["discord"] = a.bot.Ping

	if cfg.HTTP.Addr != "" {
		router := httpserver.NewRouter(checks, prom.Handler())
		a.server = httpserver.New(cfg.HTTP.Addr, router, baseLogger.With("component", "http"))
	}
	return a, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (ports.ArticleStore, *sql.DB, error) {
	if cfg.Driver != "postgres" {
		logger.Warn("using in-memory article store; submissions are lost on restart")
		return storage.NewMemoryRepository(), nil, nil
	}

	db, err := storage.OpenPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	applied, err := storage.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if applied > 0 {
		logger.Info("database migrated", "applied", applied)
	}
	return storage.NewPostgresRepository(db), db, nil
}

func openSessions(ctx context.Context, cfg config.SessionConfig, checks map[string]httpserver.HealthCheck, a *Application) (ports.SessionStore, error) {
	if cfg.Backend != "redis" {
		return session.NewMemoryStore(), nil
	}

	client, err := session.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	checks["sessions"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	return session.NewRedisStore(client, cfg.KeyPrefix, cfg.Timeout), nil
}

// Run connects the bot and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if err := a.bot.Open(ctx); err != nil {
		return err
	}
	if a.server != nil {
		a.server.Start()
	}
	if a.jobs != nil {
		if err := a.jobs.Start(ctx); err != nil {
			a.logger.Warn("db stats job disabled", "error", err)
		}
	}
	a.logger.Info("article bot running")

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.shutdown(shutdownCtx)
}

func (a *Application) shutdown(ctx context.Context) error {
	var errs []error
	if err := a.bot.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	a.selection.Shutdown()
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}

// Migrate applies pending article store migrations and exits.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (int, error) {
	if cfg.Driver != "postgres" {
		return 0, fmt.Errorf("migrate: database driver %q has no schema", cfg.Driver)
	}
	db, err := storage.OpenPostgres(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	applied, err := storage.Migrate(ctx, db)
	if err != nil {
		return applied, err
	}
	logger.Info("migrations applied", "count", applied)
	return applied, nil
}
