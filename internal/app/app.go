package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/detect"
	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/infrastructure/cache"
	"GoalWatcher/internal/infrastructure/parser"
	"GoalWatcher/internal/infrastructure/scheduler"
	"GoalWatcher/internal/infrastructure/storage"
	"GoalWatcher/internal/infrastructure/telegram"
	"GoalWatcher/internal/infrastructure/webhook"
	"GoalWatcher/internal/kickoff"
	"GoalWatcher/internal/logging"
	"GoalWatcher/internal/normalize"
	"GoalWatcher/internal/notify"
	"GoalWatcher/internal/ports"
	"GoalWatcher/internal/reconcile"
	"GoalWatcher/internal/scanner"
	"GoalWatcher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	mode      config.Mode
	scheduler *usecase.Scheduler
	closers   []io.Closer
}

// New validates cfg for mode and builds every adapter the mode needs. Missing
// credentials are ConfigurationFailures; an unreachable backend is only
// logged and the cycles retry it.
func New(ctx context.Context, cfg config.Config, mode config.Mode, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	a := &Application{cfg: cfg, mode: mode}
	localizer := kickoff.NewLocalizer(cfg.Storage.Shift())

	store, err := a.openStore(ctx, baseLogger.With("component", "storage"))
	if err != nil {
		a.Close()
		return nil, domain.NewError(domain.ConfigurationFailure, "open store", cfg.Database.Driver, err)
	}

	deps := usecase.PipelineDeps{
		Store:     store,
		Localizer: localizer,
		Pacing:    usecase.PacingFromConfig(cfg.Poller),
		Logger:    baseLogger.With("component", "pipeline"),
	}

	if mode.Saves() {
		registry := scanner.NewRegistry()
		registry.Register(parser.NewGoalScanner(nil, baseLogger.With("component", "scanner.goal")))

		deps.Source = parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))
		deps.Normalizer = normalize.New(baseLogger.With("component", "normalize"))
		deps.Engine = reconcile.NewEngine(store, localizer, reconcile.Options{
			BatchSize: cfg.Storage.BatchSize,
			Logger:    baseLogger.With("component", "reconcile"),
		})
	}

	var chat ports.MessageSender
	if mode.Notifies() {
		scores, err := a.openCache(ctx, baseLogger.With("component", "cache"))
		if err != nil {
			a.Close()
			return nil, domain.NewError(domain.ConfigurationFailure, "open cache", cfg.Cache.Backend, err)
		}
		deps.Detector = detect.New(scores)

		var channels []notify.Channel
		if tg := cfg.Notifications.Telegram; tg.Enabled() {
			notifier, err := telegram.NewNotifier(tg.BotToken, tg.ChatID, tg.APIEndpoint, nil)
			if err != nil {
				a.Close()
				return nil, domain.NewError(domain.ConfigurationFailure, "telegram", tg.ChatID, err)
			}
			if err := notifier.Check(ctx); err != nil {
				baseLogger.Warn("telegram unreachable at startup, sends will retry per message", "error", err)
			}
			chat = notifier
			channels = append(channels, notify.Channel{Name: "telegram", Render: notify.RenderChat, Sender: notifier})
		}
		if cfg.Notifications.Webhook.URL != "" {
			channels = append(channels, notify.Channel{
				Name:   "webhook",
				Render: notify.RenderWebhook,
				Sender: webhook.NewClient(cfg.Notifications.Webhook),
			})
		}
		deps.Dispatcher = notify.NewDispatcher(baseLogger.With("component", "notify"), channels...)
	}

	schedDeps := usecase.SchedulerDeps{
		Mode:     mode,
		Pipeline: usecase.NewPipeline(deps),
		Poller:   scheduler.NewPoller(),
		Logger:   baseLogger.With("component", "scheduler"),
	}
	if chat != nil && cfg.Scheduler.DailyCron != "" {
		schedDeps.Schedule = usecase.NewDailySchedule(store, chat, localizer, baseLogger.With("component", "schedule"))
		schedDeps.Driver = scheduler.NewCronScheduler(cfg.Scheduler.DailyCron, cfg.Scheduler.Location(),
			baseLogger.With("component", "cron"))
	}
	a.scheduler = usecase.NewScheduler(schedDeps)

	return a, nil
}

// Run executes the mode until ctx is cancelled (or once).
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.Run(ctx)
}

// Close releases database and cache connections.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) openStore(ctx context.Context, logger *slog.Logger) (ports.MatchStore, error) {
	switch a.cfg.Database.Driver {
	case "memory":
		return storage.NewMemoryRepository(), nil
	case "", "postgres":
		db, err := storage.Open(a.cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closerFunc(func() error { return closeDB(db) }))

		repo, err := storage.NewPostgresRepository(db, a.cfg.Database.Table)
		if err != nil {
			return nil, err
		}
		if err := storage.Ping(ctx, db); err != nil {
			logger.Warn("postgres unreachable at startup, retrying on next cycle", "error",
				domain.NewError(domain.StoreFailure, "ping", a.cfg.Database.Table, err))
			return repo, nil
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Warn("schema not ready, retrying on next cycle", "error",
				domain.NewError(domain.StoreFailure, "ensure schema", a.cfg.Database.Table, err))
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", a.cfg.Database.Driver)
	}
}

func (a *Application) openCache(ctx context.Context, logger *slog.Logger) (ports.ScoreCache, error) {
	switch a.cfg.Cache.Backend {
	case "", "memory":
		return detect.NewMemoryCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(a.cfg.Cache)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable at startup, retrying on next cycle", "error", err)
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeDB(db *sql.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
