package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/central-university-dev/go-wanbit/internal/bot/cache"
	"github.com/central-university-dev/go-wanbit/internal/bot/clients/ai"
	"github.com/central-university-dev/go-wanbit/internal/bot/clients/telegram"
	"github.com/central-university-dev/go-wanbit/internal/bot/clients/whatsapp"
	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/commands"
	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/bot/media"
	"github.com/central-university-dev/go-wanbit/internal/bot/normalizer"
	"github.com/central-university-dev/go-wanbit/internal/bot/notify"
	"github.com/central-university-dev/go-wanbit/internal/bot/permission"
	"github.com/central-university-dev/go-wanbit/internal/bot/registry"
	"github.com/central-university-dev/go-wanbit/internal/bot/repository"
	"github.com/central-university-dev/go-wanbit/internal/bot/service"
	"github.com/central-university-dev/go-wanbit/internal/bot/welcome"
	"github.com/central-university-dev/go-wanbit/internal/common/httputil"
	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/common/ratelimit"
	"github.com/central-university-dev/go-wanbit/internal/config"
	"github.com/central-university-dev/go-wanbit/internal/database"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/scheduler"
	"github.com/central-university-dev/go-wanbit/pkg"
	"github.com/central-university-dev/go-wanbit/pkg/txs"
)

const shutdownTimeout = 15 * time.Second

// transport - мессенджер вместе с источником входящих событий.
type transport interface {
	domain.Messenger

	OnGroupEvent(handler domain.GroupEventHandler)
	Start(ctx context.Context, handler domain.MessageHandler) error
	Stop(ctx context.Context) error
}

type telegramTransport struct {
	*telegram.Client
	*telegram.Poller
}

func newStore(db *database.PostgresDB, txManager *txs.TxManager, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	store, err := repository.NewFactory(db, txManager, cfg, logger).CreateStore()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания хранилища: %w", err)
	}

	return store, nil
}

func newTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transport, error) {
	switch config.Transport(strings.ToUpper(string(cfg.Transport))) {
	case config.WhatsAppTransport, "":
		return whatsapp.NewClient(ctx, cfg.WhatsAppSessionPath, cfg.DispatchTimeout, cfg.DispatchConcurrency, logger)
	case config.TelegramTransport:
		client, err := telegram.NewClient(cfg.TelegramBotToken, "", httputil.NewResilientClient(cfg, logger, "telegram-files"), logger)
		if err != nil {
			return nil, err
		}

		return &telegramTransport{Client: client, Poller: telegram.NewPoller(client, cfg.DispatchTimeout, logger)}, nil
	default:
		return nil, &customerrors.ErrUnknownTransport{Transport: string(cfg.Transport)}
	}
}

// newRosterProvider оборачивает транспорт кэшем Redis, если он настроен и доступен.
// Без кэша invalidator равен nil.
func newRosterProvider(ctx context.Context, cfg *config.Config, messenger domain.Messenger, logger *slog.Logger) (
	command.RosterProvider, service.RosterInvalidator, *redis.Client,
) {
	if cfg.RedisURL == "" {
		return messenger, nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Error("Ошибка при подключении к Redis, кэш участников отключен", "error", err)
		return messenger, nil, nil
	}

	logger.Info("Кэш участников групп в Redis включен", "ttl", cfg.RosterCacheTTL)

	rosterCache := cache.NewRosterCache(client, messenger, cfg.RosterCacheTTL, logger)

	return rosterCache, rosterCache, client
}

// newGroupEvents собирает обработчик событий групп; приветствие отключается WELCOME_ENABLED.
func newGroupEvents(cfg *config.Config, store repository.Store, messenger domain.Messenger,
	rosters service.RosterInvalidator, logger *slog.Logger,
) (*service.GroupEvents, error) {
	var welcomer service.Welcomer

	if cfg.WelcomeEnabled {
		location, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", cfg.Timezone, err)
		}

		welcomer = welcome.NewService(store, messenger, location, logger)
	}

	return service.NewGroupEvents(rosters, welcomer, logger), nil
}

func healthChecks(db *database.PostgresDB, redisClient *redis.Client, messenger transport) map[string]metrics.HealthCheck {
	checks := map[string]metrics.HealthCheck{
		"postgres": db.Ping,
	}

	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	if h, ok := messenger.(interface{ Health(ctx context.Context) error }); ok {
		checks["transport"] = h.Health
	}

	return checks
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func runServe(parent context.Context, cfg *config.Config, migrate bool) error {
	appLogger := pkg.NewLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
			return err
		}
	}

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при подключении к базе данных", "error", err)

		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}
	defer db.Close()

	store, err := newStore(db, txs.NewTxManager(db.Pool, appLogger), cfg, appLogger)
	if err != nil {
		return err
	}

	messenger, err := newTransport(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("ошибка создания транспорта %s: %w", cfg.Transport, err)
	}

	rosters, rosterInvalidator, redisClient := newRosterProvider(ctx, cfg, messenger, appLogger)

	groupEvents, err := newGroupEvents(cfg, store, messenger, rosterInvalidator, appLogger)
	if err != nil {
		return err
	}

	messenger.OnGroupEvent(groupEvents)

	notifier, closeNotifier, err := notify.NewNotifierFactory(cfg, appLogger).CreateNotifier(messenger)
	if err != nil {
		return err
	}

	set := commands.NewSet(commands.Deps{
		Points:      store,
		Access:      store,
		AI:          ai.NewClient(cfg, appLogger),
		Stickers:    media.NewTranscoder(cfg.FFmpegPath, appLogger),
		Suggestions: notifier,
		Welcome:     store,
		Logger:      appLogger,
	})

	commandRegistry := registry.New(set, appLogger)
	set.Bind(commandRegistry)

	if err := commandRegistry.Load(ctx); err != nil {
		return fmt.Errorf("ошибка загрузки команд: %w", err)
	}

	settings := command.Settings{
		Prefix:  cfg.Prefix,
		OwnerID: cfg.OwnerID,
		BotName: cfg.BotName,
		BotLink: cfg.BotLink,
	}

	dispatcher := service.NewDispatcher(
		normalizer.New(cfg.Prefix),
		ratelimit.NewKeyedLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow, appLogger),
		store,
		commandRegistry,
		permission.NewResolver(cfg.OwnerID, rosters, store, appLogger),
		command.NewBuilder(settings, messenger, rosters, appLogger),
		notifier,
		service.Options{
			Transport:           strings.ToLower(string(cfg.Transport)),
			ReplyUnknownCommand: cfg.ReplyUnknownCommand,
			HousekeepingTimeout: cfg.HousekeepingTimeout,
		},
		appLogger,
	)

	dailyReset, err := scheduler.NewScheduler(store, cfg.DailyResetTime, cfg.Timezone, appLogger)
	if err != nil {
		return err
	}

	if err := dailyReset.Start(); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	metricsServer := metrics.NewMetricsServer(cfg.BotMetricsPort, appLogger, healthChecks(db, redisClient, messenger))

	group.Go(func() error {
		return metricsServer.Start(groupCtx)
	})

	if err := messenger.Start(ctx, dispatcher); err != nil {
		stop()
		_ = group.Wait()

		return multierr.Append(err, shutdown(messenger, dailyReset, closeNotifier, redisClient, appLogger))
	}

	appLogger.Info("Бот запущен",
		"transport", cfg.Transport,
		"prefix", cfg.Prefix,
		"next_daily_reset", dailyReset.NextRun(),
	)

	<-groupCtx.Done()
	appLogger.Info("Получен сигнал завершения")

	stop()

	return multierr.Combine(
		group.Wait(),
		shutdown(messenger, dailyReset, closeNotifier, redisClient, appLogger),
	)
}

func shutdown(
	messenger transport,
	dailyReset *scheduler.Scheduler,
	closeNotifier func() error,
	redisClient *redis.Client,
	appLogger *slog.Logger,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	dailyReset.Stop()

	err := messenger.Stop(ctx)
	err = multierr.Append(err, closeNotifier())

	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}

	if err != nil {
		appLogger.Error("Ошибка при остановке сервиса", "error", err)
		return err
	}

	appLogger.Info("Сервис успешно остановлен")

	return nil
}
